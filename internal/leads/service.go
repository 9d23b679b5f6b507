package leads

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/whatsapp"
)

// ErrNotFound is returned for an unknown lead id. No mutation occurs.
var ErrNotFound = eris.New("lead not found")

// ErrInvalidStatus is returned for a status outside the workflow. No
// mutation occurs.
var ErrInvalidStatus = eris.New("invalid status")

// ErrAlreadyContacted is returned when a normal send targets a lead that is
// past pending. Deliberate re-contact goes through ForceContact instead.
var ErrAlreadyContacted = eris.New("lead already contacted")

// Service exposes the operator command surface over the lead book.
type Service struct {
	registry  *Registry
	transport whatsapp.Client
}

// NewService creates the operator service.
func NewService(registry *Registry, transport whatsapp.Client) *Service {
	return &Service{registry: registry, transport: transport}
}

// ViewLeads lists the book, optionally filtered by status. An empty filter
// returns everything; an unknown filter value is rejected.
func (s *Service) ViewLeads(filter string) ([]model.Lead, error) {
	all := s.registry.Snapshot()
	if filter == "" {
		return all, nil
	}

	status, ok := model.ParseStatus(filter)
	if !ok {
		return nil, eris.Wrapf(ErrInvalidStatus, "%q", filter)
	}

	var out []model.Lead
	for _, l := range all {
		if l.Status == status {
			out = append(out, l)
		}
	}
	return out, nil
}

// LeadInfo returns a single lead by id.
func (s *Service) LeadInfo(id string) (model.Lead, error) {
	lead, ok := s.registry.Get(id)
	if !ok {
		return model.Lead{}, eris.Wrapf(ErrNotFound, "%s", id)
	}
	return lead, nil
}

// SendLead delivers the pitch to a pending lead and marks it contacted.
// A lead already past pending is refused so a stray repeat command cannot
// double-contact a business; the operator forces a resend explicitly.
// Transport failure leaves the status untouched, so the send is retryable.
func (s *Service) SendLead(ctx context.Context, id string) error {
	lead, ok := s.registry.Get(id)
	if !ok {
		return eris.Wrapf(ErrNotFound, "%s", id)
	}
	if lead.Status != model.StatusPending {
		if lead.Status == model.StatusContacted {
			return eris.Wrapf(ErrAlreadyContacted, "%s", id)
		}
		return eris.Errorf("lead %s is %s, not pending", id, lead.Status)
	}

	if err := s.deliver(ctx, lead); err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.registry.Update(ctx, id, func(l *model.Lead) {
		l.Status = model.StatusContacted
		if l.ContactedAt == nil {
			l.ContactedAt = &now
		}
	})
}

// ForceContact resends the pitch regardless of status. It never mutates
// status or the contact timestamp; only a normal send does that.
func (s *Service) ForceContact(ctx context.Context, id string) error {
	lead, ok := s.registry.Get(id)
	if !ok {
		return eris.Wrapf(ErrNotFound, "%s", id)
	}
	return s.deliver(ctx, lead)
}

// UpdateStatus sets any of the four workflow statuses directly. Invalid
// values are rejected with no mutation and no persistence write.
func (s *Service) UpdateStatus(ctx context.Context, id, rawStatus string) error {
	status, ok := model.ParseStatus(rawStatus)
	if !ok {
		return eris.Wrapf(ErrInvalidStatus, "%q", rawStatus)
	}
	if _, exists := s.registry.Get(id); !exists {
		return eris.Wrapf(ErrNotFound, "%s", id)
	}
	return s.registry.Update(ctx, id, func(l *model.Lead) {
		l.Status = status
	})
}

// Stats summarizes the book.
func (s *Service) Stats() model.Stats {
	return model.ComputeStats(s.registry.Snapshot())
}

func (s *Service) deliver(ctx context.Context, lead model.Lead) error {
	recipient := lead.Phones[0]
	if err := s.transport.Send(ctx, recipient, lead.Pitch); err != nil {
		return eris.Wrapf(err, "leads: send to %s", lead.ID)
	}
	zap.L().Info("pitch delivered",
		zap.String("lead_id", lead.ID),
		zap.String("business", lead.Name),
	)
	return nil
}
