package service

import (
	"fmt"

	"github.com/google/uuid"
)

type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id string, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %s not found", resourceType, id)}
}

func NewErrPhotoNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id.String(), "photo")
}

func NewErrJobSummaryNotFound(jobID string) *ErrResourceNotFound {
	return NewErrResourceNotFound(jobID, "job summary")
}

func NewErrClaimNotFound(jobID string) *ErrResourceNotFound {
	return NewErrResourceNotFound(jobID, "claim for job")
}

func NewErrSubmissionNotFound(jobID string) *ErrResourceNotFound {
	return NewErrResourceNotFound(jobID, "submission for job")
}

// ErrNoAssessments signals that a job has no assessments yet; aggregation
// treats it as nothing-to-do, not a failure.
type ErrNoAssessments struct {
	error
}

func NewErrNoAssessments(jobID string) *ErrNoAssessments {
	return &ErrNoAssessments{fmt.Errorf("no assessments found for job %s", jobID)}
}

type ErrPhotoAlreadyAssessed struct {
	error
}

func NewErrPhotoAlreadyAssessed(id uuid.UUID) *ErrPhotoAlreadyAssessed {
	return &ErrPhotoAlreadyAssessed{fmt.Errorf("photo %s has already been assessed", id)}
}

type ErrClaimAlreadySubmitted struct {
	error
}

func NewErrClaimAlreadySubmitted(jobID string) *ErrClaimAlreadySubmitted {
	return &ErrClaimAlreadySubmitted{fmt.Errorf("a claim for job %s has already been submitted", jobID)}
}
