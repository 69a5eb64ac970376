package enum

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageSpanish Language = "es"
)

func (t Language) String() string {
	return string(t)
}

type MessageType string

const (
	MessageNonActionable MessageType = "non_actionable"
	MessageStudent       MessageType = "student"
	MessageChannelSwitch MessageType = "channel_switch"
	MessageSampleRequest MessageType = "sample_request"
	MessageShort         MessageType = "short"
	MessageVague         MessageType = "vague"
	MessageOtherLanguage MessageType = "other_language"
	MessageLead          MessageType = "lead"
)

func (t MessageType) String() string {
	return string(t)
}

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

func (t Sentiment) String() string {
	return string(t)
}

type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyNormal Urgency = "normal"
)

func (t Urgency) String() string {
	return string(t)
}

type SLABucket string

const (
	SLABucket1h  SLABucket = "1h"
	SLABucket4h  SLABucket = "4h"
	SLABucket8h  SLABucket = "8h"
	SLABucket24h SLABucket = "24h"
)

func (t SLABucket) String() string {
	return string(t)
}

// Duration returns the response-time target for the bucket in hours.
func (t SLABucket) Hours() int {
	switch t {
	case SLABucket1h:
		return 1
	case SLABucket4h:
		return 4
	case SLABucket8h:
		return 8
	default:
		return 24
	}
}
