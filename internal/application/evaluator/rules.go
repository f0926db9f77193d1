package evaluator

import (
	"fmt"

	"github.com/go-push-nosql/internal/domain"
)

// Fixed product copy pushed to clients.
const (
	titleMatchFull   = "¡Partido confirmado!"
	bodyMatchFull    = "Se ha completado el cupo para tu partido."
	titleMatchJoined = "¡Nuevo jugador!"
	bodyMatchJoined  = "Un jugador se ha unido a tu partido."
	titleApproved    = "¡Reserva Aprobada!"
	bodyApproved     = "Tu reserva ha sido confirmada."
)

const teamSize = 2
const rosterSize = 4

// intent is one pending notification-creation request. rule and transition
// feed the deterministic intent key; they fingerprint which rule fired on
// which state change so a redelivered update maps to the same records.
type intent struct {
	receiverID string
	ntype      string
	title      string
	body       string
	rule       string
	transition string
}

// teamCompletion fires when the second team just became full. Every member
// of both teams is notified that the match is confirmed.
func teamCompletion(before, after *domain.Reservation) []intent {
	_, oldT2 := before.TeamRosters()
	newT1, newT2 := after.TeamRosters()
	if len(newT2) != teamSize || len(oldT2) >= teamSize {
		return nil
	}
	transition := fmt.Sprintf("team2:%d->%d", len(oldT2), len(newT2))
	return fanout(union(newT1, newT2), domain.NotificationMatchFull,
		titleMatchFull, bodyMatchFull, "teamFull", transition)
}

// rosterCompletion fires when the flat participant roster just reached four.
func rosterCompletion(before, after *domain.Reservation) []intent {
	oldP := before.Participants()
	newP := after.Participants()
	if len(newP) != rosterSize || len(oldP) >= rosterSize {
		return nil
	}
	transition := fmt.Sprintf("roster:%d->%d", len(oldP), len(newP))
	return fanout(union(newP), domain.NotificationMatchFull,
		titleMatchFull, bodyMatchFull, "rosterFull", transition)
}

// falta1Join fires when a participant other than the owner was added. The
// receiver set depends on the configured fan-out policy.
func falta1Join(before, after *domain.Reservation, policy Falta1Fanout) []intent {
	oldP := before.Participants()
	newP := after.Participants()
	if len(newP) <= len(oldP) {
		return nil
	}
	joined := firstNewMember(oldP, newP)
	if joined == "" || joined == after.UserID {
		return nil
	}
	transition := "join:" + joined

	if policy == FanoutExclusive {
		receivers := union([]string{after.UserID}, oldP)
		return fanout(receivers, domain.NotificationMatchJoined,
			titleMatchJoined, bodyMatchJoined, "falta1Join", transition)
	}
	return fanout(union(newP), domain.NotificationMatchFull,
		titleMatchFull, bodyMatchFull, "falta1Join", transition)
}

// approvalIntents fires when the status just crossed into approved. Only the
// owner is notified.
func approvalIntents(before, after *domain.Reservation) []intent {
	if before.Status == domain.StatusApproved || after.Status != domain.StatusApproved {
		return nil
	}
	if after.UserID == "" {
		return nil
	}
	transition := fmt.Sprintf("status:%s->%s", before.Status, after.Status)
	return fanout([]string{after.UserID}, domain.NotificationReservationApproved,
		titleApproved, bodyApproved, "approved", transition)
}

func fanout(receivers []string, ntype, title, body, rule, transition string) []intent {
	intents := make([]intent, 0, len(receivers))
	for _, r := range receivers {
		intents = append(intents, intent{
			receiverID: r,
			ntype:      ntype,
			title:      title,
			body:       body,
			rule:       rule,
			transition: transition,
		})
	}
	return intents
}

// union concatenates the groups preserving order, dropping empties and
// duplicates. A user on both teams, or an owner who is also a participant,
// is notified once.
func union(groups ...[]string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, g := range groups {
		for _, id := range g {
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// firstNewMember returns the first element of cur absent from prev. An
// update should only ever add one participant.
func firstNewMember(prev, cur []string) string {
	known := make(map[string]bool, len(prev))
	for _, id := range prev {
		known[id] = true
	}
	for _, id := range cur {
		if !known[id] {
			return id
		}
	}
	return ""
}
