package database

import (
	"context"
	"encoding/json"
	"fmt"

	"ieee-funding-portal/internal/forms"
	"ieee-funding-portal/internal/models"
	"ieee-funding-portal/internal/report"

	"github.com/google/uuid"
)

// ApplicationRecorder persists accepted applications. It satisfies the
// wizard's Recorder interface.
type ApplicationRecorder struct{}

func (ApplicationRecorder) Record(ctx context.Context, f *forms.FormData, pdfName string, docs []report.Attachment) error {
	formJSON, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal form: %w", err)
	}

	app := models.Application{
		ID:            uuid.NewString(),
		StudentID:     f.StudentID,
		Email:         f.Email,
		FirstName:     f.FirstName,
		LastName:      f.LastName,
		ProjectTitle:  f.ProjectTitle,
		MentorID:      f.MentorID,
		MentorName:    f.MentorName,
		SAPCode:       f.SAPCode,
		Status:        models.StatusSubmitted,
		FundingAmount: f.FundingAmount,
		FormJSON:      string(formJSON),
		PDFName:       pdfName,
	}

	for i, item := range f.BudgetItems {
		app.BudgetItems = append(app.BudgetItems, models.ApplicationBudgetItem{
			Seq:           i + 1,
			Items:         item.Items,
			Components:    item.Components,
			Quantity:      item.Quantity,
			Justification: item.Justification,
		})
	}

	for _, doc := range docs {
		app.Attachments = append(app.Attachments, models.AttachmentMeta{
			ID:        uuid.NewString(),
			DocType:   doc.DocType,
			FileName:  doc.FileName,
			MIME:      doc.MIME,
			SizeBytes: int64(len(doc.Data)),
		})
	}

	if err := DB.WithContext(ctx).Create(&app).Error; err != nil {
		return fmt.Errorf("store application: %w", err)
	}

	CreateAuditLog(0, "application", app.ID, "submit",
		fmt.Sprintf("Application submitted by %s (%s)", f.StudentID, f.Email))
	return nil
}
