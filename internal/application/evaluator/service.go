package evaluator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-push-nosql/internal/config"
	"github.com/go-push-nosql/internal/domain"
)

// MembershipModel selects the match2vs2 roster representation. A deployment
// uses exactly one model; the evaluator never infers it from field presence.
type MembershipModel string

const (
	MembershipTeams      MembershipModel = "teams"
	MembershipFlatRoster MembershipModel = "roster"
)

// Falta1Fanout selects who gets notified when a player joins a falta1 match.
type Falta1Fanout string

const (
	// FanoutInclusive notifies every current participant, joiner included,
	// with a matchFull intent. This is what the original product shipped.
	FanoutInclusive Falta1Fanout = "inclusive"
	// FanoutExclusive notifies the owner and the participants that were
	// already in before the join, with a matchJoined intent.
	FanoutExclusive Falta1Fanout = "exclusive"
)

// Policy is the deployment-wide rule configuration.
type Policy struct {
	Membership MembershipModel
	Falta1     Falta1Fanout
}

// PolicyFromConfig validates and maps the raw config strings.
func PolicyFromConfig(cfg *config.Config) (Policy, error) {
	p := Policy{
		Membership: MembershipModel(cfg.MembershipModel),
		Falta1:     Falta1Fanout(cfg.Falta1Fanout),
	}
	if p.Membership != MembershipTeams && p.Membership != MembershipFlatRoster {
		return Policy{}, fmt.Errorf("unknown membership model %q", cfg.MembershipModel)
	}
	if p.Falta1 != FanoutInclusive && p.Falta1 != FanoutExclusive {
		return Policy{}, fmt.Errorf("unknown falta1 fanout %q", cfg.Falta1Fanout)
	}
	return p, nil
}

// intentStore is the persistent record store the evaluator writes to.
type intentStore interface {
	CreateIfAbsent(ctx context.Context, n *domain.Notification) error
}

// Service decides, for one reservation update, who must be notified and
// persists the resulting notification intents.
type Service interface {
	Evaluate(ctx context.Context, reservationID string, before, after *domain.Reservation) error
}

type service struct {
	store  intentStore
	policy Policy
	now    func() time.Time
}

func NewService(store intentStore, policy Policy) Service {
	return &service{store: store, policy: policy, now: time.Now}
}

// Evaluate runs the ordered rule list against the before/after pair. The
// completion rules (match full, falta1 join) run first; the approval rule
// only fires when none of them produced an intent for this update. All
// creations are issued concurrently and awaited jointly; any failure fails
// the invocation so the stream redelivers the pair. Redelivery is harmless:
// intent IDs are deterministic and the store write is conditional.
func (s *service) Evaluate(ctx context.Context, reservationID string, before, after *domain.Reservation) error {
	if after == nil {
		return nil
	}
	if before == nil {
		before = &domain.Reservation{}
	}

	intents := s.completionIntents(before, after)
	if len(intents) == 0 {
		intents = approvalIntents(before, after)
	}
	if len(intents) == 0 {
		return nil
	}

	now := s.now().UTC()
	var wg sync.WaitGroup
	failures := make(chan error, len(intents))
	for _, it := range intents {
		wg.Add(1)
		go func(it intent) {
			defer wg.Done()
			n := &domain.Notification{
				NotificationID: domain.IntentKey(reservationID, it.rule, it.transition, it.receiverID),
				ReceiverID:     it.receiverID,
				Type:           it.ntype,
				ReservationID:  reservationID,
				Title:          it.title,
				Body:           it.body,
				Read:           false,
				CreatedAt:      now,
			}
			if err := s.store.CreateIfAbsent(ctx, n); err != nil {
				failures <- fmt.Errorf("create intent for %s: %w", it.receiverID, err)
			}
		}(it)
	}
	wg.Wait()
	close(failures)

	var errs []error
	for err := range failures {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	slog.Info("notification intents created",
		"reservation_id", reservationID, "rule", intents[0].rule, "count", len(intents))
	return nil
}

func (s *service) completionIntents(before, after *domain.Reservation) []intent {
	switch after.Type {
	case domain.MatchType2vs2:
		if s.policy.Membership == MembershipTeams {
			return teamCompletion(before, after)
		}
		return rosterCompletion(before, after)
	case domain.MatchTypeFalta1:
		return falta1Join(before, after, s.policy.Falta1)
	}
	return nil
}
