package request

import (
	"strings"

	"github.com/google/uuid"

	"github.com/minicrm/backend/internal/domain"
)

const maxCommentLen = 2000

// CreateInput holds parameters for submitting a new delivery request.
type CreateInput struct {
	DirectionID    uuid.UUID
	DeliverySlotID uuid.UUID
	BoxesCount     int
	WeightKg       float64
	VolumeM3       float64
	Comment        *string
}

// Validate validates the create input.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	if i.DirectionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "direction_id", Message: "required"})
	}
	if i.DeliverySlotID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "delivery_slot_id", Message: "required"})
	}
	if i.BoxesCount <= 0 {
		errs = append(errs, domain.FieldError{Field: "boxes_count", Message: "must be positive"})
	}
	if i.WeightKg <= 0 {
		errs = append(errs, domain.FieldError{Field: "weight_kg", Message: "must be positive"})
	}
	if i.VolumeM3 <= 0 {
		errs = append(errs, domain.FieldError{Field: "volume_m3", Message: "must be positive"})
	}
	errs = append(errs, validateComment(i.Comment)...)

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateInput holds parameters for mutating an existing request. Nil fields
// are left unchanged. The whole update applies atomically or not at all.
type UpdateInput struct {
	Status         *domain.RequestStatus
	DirectionID    *uuid.UUID
	DeliverySlotID *uuid.UUID
	BoxesCount     *int
	WeightKg       *float64
	VolumeM3       *float64
	Comment        *string
	// HistoryComment is stored on the ledger entry, not on the request.
	HistoryComment *string
}

// Validate validates the update input.
func (i UpdateInput) Validate() error {
	var errs []domain.FieldError

	if i.isEmpty() {
		errs = append(errs, domain.FieldError{Field: "update", Message: "no fields to update"})
	}
	if i.Status != nil && !i.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "unknown status"})
	}
	if i.DirectionID != nil && *i.DirectionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "direction_id", Message: "must not be empty"})
	}
	if i.DeliverySlotID != nil && *i.DeliverySlotID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "delivery_slot_id", Message: "must not be empty"})
	}
	if i.BoxesCount != nil && *i.BoxesCount <= 0 {
		errs = append(errs, domain.FieldError{Field: "boxes_count", Message: "must be positive"})
	}
	if i.WeightKg != nil && *i.WeightKg <= 0 {
		errs = append(errs, domain.FieldError{Field: "weight_kg", Message: "must be positive"})
	}
	if i.VolumeM3 != nil && *i.VolumeM3 <= 0 {
		errs = append(errs, domain.FieldError{Field: "volume_m3", Message: "must be positive"})
	}
	errs = append(errs, validateComment(i.Comment)...)
	errs = append(errs, validateComment(i.HistoryComment)...)

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func (i UpdateInput) isEmpty() bool {
	return i.Status == nil && i.DirectionID == nil && i.DeliverySlotID == nil &&
		i.BoxesCount == nil && i.WeightKg == nil && i.VolumeM3 == nil && i.Comment == nil
}

func validateComment(comment *string) []domain.FieldError {
	if comment == nil {
		return nil
	}
	if len(strings.TrimSpace(*comment)) == 0 {
		return []domain.FieldError{{Field: "comment", Message: "must not be blank"}}
	}
	if len(*comment) > maxCommentLen {
		return []domain.FieldError{{Field: "comment", Message: "too long"}}
	}
	return nil
}
