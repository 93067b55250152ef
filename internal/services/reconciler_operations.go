package services

import (
	"errors"
	"strings"

	"github.com/terraincognita07/syndic/internal/models"
)

var (
	ErrProjectNotFound   = errors.New("project not found")
	ErrComplaintNotFound = errors.New("complaint not found")
	ErrTitleRequired     = errors.New("title is required")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidPriority   = errors.New("invalid priority")
)

type ProjectInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	Budget      float64
	Attachments []models.Attachment
	CreatedBy   string
}

type ComplaintInput struct {
	ApartmentID string
	Title       string
	Description string
	Status      string
	Priority    string
	Attachments []models.Attachment
	CreatedBy   string
}

func (reconciler *Reconciler) AddProject(input ProjectInput) (models.Project, WriteReport, error) {
	var created models.Project
	report, err := reconciler.mutate(func(report *WriteReport) error {
		project, err := reconciler.projectFromInput(input)
		if err != nil {
			return err
		}
		now := reconciler.timestamp()
		project.ID = reconciler.newID()
		project.CreatedAt = now
		project.UpdatedAt = now
		reconciler.state.Projects = append(reconciler.state.Projects, project)
		created = project
		return reconciler.saveOperations(report)
	})
	return created, report, err
}

func (reconciler *Reconciler) UpdateProject(id string, input ProjectInput) (models.Project, WriteReport, error) {
	var updated models.Project
	report, err := reconciler.mutate(func(report *WriteReport) error {
		for index, existing := range reconciler.state.Projects {
			if existing.ID != id {
				continue
			}
			project, err := reconciler.projectFromInput(input)
			if err != nil {
				return err
			}
			project.ID = id
			project.CreatedAt = existing.CreatedAt
			if project.CreatedBy == "" {
				project.CreatedBy = existing.CreatedBy
			}
			project.UpdatedAt = reconciler.timestamp()
			reconciler.state.Projects[index] = project
			updated = project
			return reconciler.saveOperations(report)
		}
		return ErrProjectNotFound
	})
	return updated, report, err
}

func (reconciler *Reconciler) DeleteProject(id string) (WriteReport, error) {
	return reconciler.mutate(func(report *WriteReport) error {
		for index, project := range reconciler.state.Projects {
			if project.ID == id {
				reconciler.state.Projects = append(reconciler.state.Projects[:index], reconciler.state.Projects[index+1:]...)
				return reconciler.saveOperations(report)
			}
		}
		return ErrProjectNotFound
	})
}

func (reconciler *Reconciler) AddComplaint(input ComplaintInput) (models.Complaint, WriteReport, error) {
	var created models.Complaint
	report, err := reconciler.mutate(func(report *WriteReport) error {
		complaint, err := reconciler.complaintFromInput(input)
		if err != nil {
			return err
		}
		now := reconciler.timestamp()
		complaint.ID = reconciler.newID()
		complaint.CreatedAt = now
		complaint.UpdatedAt = now
		reconciler.state.Complaints = append(reconciler.state.Complaints, complaint)
		created = complaint
		return reconciler.saveOperations(report)
	})
	return created, report, err
}

func (reconciler *Reconciler) UpdateComplaint(id string, input ComplaintInput) (models.Complaint, WriteReport, error) {
	var updated models.Complaint
	report, err := reconciler.mutate(func(report *WriteReport) error {
		for index, existing := range reconciler.state.Complaints {
			if existing.ID != id {
				continue
			}
			complaint, err := reconciler.complaintFromInput(input)
			if err != nil {
				return err
			}
			complaint.ID = id
			complaint.CreatedAt = existing.CreatedAt
			if complaint.CreatedBy == "" {
				complaint.CreatedBy = existing.CreatedBy
			}
			complaint.UpdatedAt = reconciler.timestamp()
			reconciler.state.Complaints[index] = complaint
			updated = complaint
			return reconciler.saveOperations(report)
		}
		return ErrComplaintNotFound
	})
	return updated, report, err
}

func (reconciler *Reconciler) DeleteComplaint(id string) (WriteReport, error) {
	return reconciler.mutate(func(report *WriteReport) error {
		for index, complaint := range reconciler.state.Complaints {
			if complaint.ID == id {
				reconciler.state.Complaints = append(reconciler.state.Complaints[:index], reconciler.state.Complaints[index+1:]...)
				return reconciler.saveOperations(report)
			}
		}
		return ErrComplaintNotFound
	})
}

func (reconciler *Reconciler) projectFromInput(input ProjectInput) (models.Project, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return models.Project{}, ErrTitleRequired
	}
	status, err := pickEnum(input.Status, models.ProjectStatusPlanned, ErrInvalidStatus,
		models.ProjectStatusPlanned, models.ProjectStatusInProgress, models.ProjectStatusCompleted, models.ProjectStatusCancelled)
	if err != nil {
		return models.Project{}, err
	}
	priority, err := pickPriority(input.Priority)
	if err != nil {
		return models.Project{}, err
	}
	if input.Budget < 0 {
		return models.Project{}, ErrInvalidAmount
	}
	return models.Project{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      status,
		Priority:    priority,
		Budget:      input.Budget,
		Attachments: reconciler.attachments(input.Attachments),
		CreatedBy:   strings.TrimSpace(input.CreatedBy),
	}, nil
}

func (reconciler *Reconciler) complaintFromInput(input ComplaintInput) (models.Complaint, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return models.Complaint{}, ErrTitleRequired
	}
	apartmentID := strings.TrimSpace(input.ApartmentID)
	if apartmentID != "" {
		if _, ok := reconciler.findApartment(apartmentID); !ok {
			return models.Complaint{}, ErrApartmentNotFound
		}
	}
	status, err := pickEnum(input.Status, models.ComplaintStatusOpen, ErrInvalidStatus,
		models.ComplaintStatusOpen, models.ComplaintStatusInProgress, models.ComplaintStatusResolved, models.ComplaintStatusRejected)
	if err != nil {
		return models.Complaint{}, err
	}
	priority, err := pickPriority(input.Priority)
	if err != nil {
		return models.Complaint{}, err
	}
	return models.Complaint{
		ApartmentID: apartmentID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      status,
		Priority:    priority,
		Attachments: reconciler.attachments(input.Attachments),
		CreatedBy:   strings.TrimSpace(input.CreatedBy),
	}, nil
}

// attachments assigns IDs to new attachments and derives a missing size from
// the base64 payload.
func (reconciler *Reconciler) attachments(input []models.Attachment) []models.Attachment {
	result := make([]models.Attachment, 0, len(input))
	for _, attachment := range input {
		if attachment.ID == "" {
			attachment.ID = reconciler.newID()
		}
		if attachment.Size == 0 && attachment.Data != "" {
			attachment.Size = len(attachment.Data) * 3 / 4
		}
		result = append(result, attachment)
	}
	return result
}

func pickPriority(raw string) (string, error) {
	return pickEnum(raw, models.PriorityMedium, ErrInvalidPriority,
		models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityUrgent)
}

func pickEnum(raw string, fallback string, invalid error, allowed ...string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return fallback, nil
	}
	for _, candidate := range allowed {
		if candidate == value {
			return value, nil
		}
	}
	return "", invalid
}
