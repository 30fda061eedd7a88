package dto

import "github.com/noah-isme/course-registration-api/internal/models"

// SubmitRegistrationRequest creates pending requests for one course or a batch.
type SubmitRegistrationRequest struct {
	CourseID  *int64  `json:"courseId" validate:"omitempty,gt=0"`
	CourseIDs []int64 `json:"courseIds" validate:"omitempty,dive,gt=0"`
	Mode      string  `json:"mode" validate:"omitempty,max=16"`
}

// IDs returns the requested course identifiers in submission order.
func (r SubmitRegistrationRequest) IDs() []int64 {
	ids := make([]int64, 0, len(r.CourseIDs)+1)
	if r.CourseID != nil {
		ids = append(ids, *r.CourseID)
	}
	return append(ids, r.CourseIDs...)
}

// SubmitRegistrationResult lists the pending requests created by a submission.
type SubmitRegistrationResult struct {
	Requests []models.TempRegistration `json:"requests"`
	Count    int                       `json:"count"`
}

// DecideRequest is a teacher's verdict on a pending request.
type DecideRequest struct {
	TempRegistrationID int64                 `json:"tempRegistrationId" validate:"required,gt=0"`
	Action             models.DecisionAction `json:"action" validate:"required,oneof=APPROVED REJECTED"`
}

// DecisionResult reports the outcome of a decision.
type DecisionResult struct {
	TempRegistrationID int64                         `json:"tempRegistrationId"`
	Status             models.TempRegistrationStatus `json:"status"`
	Registration       *models.Registration          `json:"registration,omitempty"`
}

// StudentRegistrations is a student's view of their requests and finalized registrations.
// History holds every request regardless of status, newest first.
type StudentRegistrations struct {
	Pending   []models.TempRegistrationDetail `json:"pending"`
	Finalized []models.RegistrationDetail     `json:"finalized"`
	History   []models.TempRegistrationDetail `json:"history"`
}

// ExportQuery selects the export format for a student's registrations.
type ExportQuery struct {
	Format string `form:"format"`
}
