package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Mdx2025/emailbot-backend/api/errors"
	"github.com/Mdx2025/emailbot-backend/interfaces"
	"github.com/Mdx2025/emailbot-backend/internal/enum"
	"github.com/Mdx2025/emailbot-backend/internal/repository"
)

type approveDraftRequest struct {
	Approver string  `json:"approver"`
	Content  *string `json:"content"`
}

type rejectDraftRequest struct {
	Approver string `json:"approver"`
	Reason   string `json:"reason"`
}

type editDraftRequest struct {
	Content string `json:"content"`
	Notes   string `json:"notes"`
}

type regenerateDraftRequest struct {
	Instruction string `json:"instruction"`
}

// ListDrafts returns drafts newest first, optionally filtered by status.
func ListDrafts(repos *repository.Repositories) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		statusParam := c.Query("status")
		var status enum.DraftStatus
		if statusParam != "" {
			status = enum.DecodeDraftStatus(statusParam)
			if status == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + statusParam})
				return
			}
		}

		drafts, err := repos.DraftRepository.ListByStatus(ctx, status)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"drafts": drafts, "count": len(drafts)})
	}
}

func GetDraft(repos *repository.Repositories) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		draft, err := repos.DraftRepository.GetByID(ctx, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if draft == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
			return
		}

		c.JSON(http.StatusOK, draft)
	}
}

func ApproveDraft(approval interfaces.ApprovalService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var request approveDraftRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		validationErrors := apierrors.NewMultiErrors()
		if request.Approver == "" {
			validationErrors.Add("approver", "approver is required", nil)
		}
		if validationErrors.HasErrors() {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErrors.Error()})
			return
		}

		draft, err := approval.Approve(ctx, c.Param("id"), request.Approver, request.Content)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, draft)
	}
}

func RejectDraft(approval interfaces.ApprovalService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var request rejectDraftRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		validationErrors := apierrors.NewMultiErrors()
		if request.Approver == "" {
			validationErrors.Add("approver", "approver is required", nil)
		}
		if request.Reason == "" {
			validationErrors.Add("reason", "rejection reason is required", nil)
		}
		if validationErrors.HasErrors() {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErrors.Error()})
			return
		}

		draft, err := approval.Reject(ctx, c.Param("id"), request.Approver, request.Reason)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, draft)
	}
}

func EditDraft(approval interfaces.ApprovalService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var request editDraftRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		if request.Content == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
			return
		}

		draft, err := approval.Edit(ctx, c.Param("id"), request.Content, request.Notes)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, draft)
	}
}

func RegenerateDraft(generator interfaces.GeneratorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var request regenerateDraftRequest
		if err := c.ShouldBindJSON(&request); err != nil && c.Request.ContentLength > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		mode := enum.DecodeInstructionMode(request.Instruction)

		draft, err := generator.Regenerate(ctx, c.Param("id"), mode)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, draft)
	}
}

// SendApprovedDrafts sends all approved drafts; partial failures are
// reported per draft in the result.
func SendApprovedDrafts(draftService interfaces.DraftService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		result, err := draftService.SendApproved(ctx)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
