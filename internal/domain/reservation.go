package domain

// Match types recognised by the evaluator. Anything else (e.g. "normal")
// only participates in the approval rule.
const (
	MatchType2vs2   = "match2vs2"
	MatchTypeFalta1 = "falta1"
)

// Reservation statuses relevant to notification rules.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

// Reservation is a read-only snapshot of a bookable match slot. Reservations
// are written by the booking backend; this service only sees before/after
// images from the table's change stream and never mutates them.
type Reservation struct {
	ReservationID string `json:"id" dynamodbav:"reservation_id"`
	Type          string `json:"type" dynamodbav:"type"`
	Status        string `json:"status" dynamodbav:"status"`
	UserID        string `json:"user_id" dynamodbav:"user_id"` // owner

	// Membership. ParticipantIDs is the flat-roster representation; the two
	// team slices are the team-based representation. Which one is in use is
	// a deployment-wide choice, not inferred per document.
	ParticipantIDs []string `json:"participant_ids" dynamodbav:"participant_ids"`
	Team1IDs       []string `json:"team1_ids" dynamodbav:"team1_ids"`
	Team2IDs       []string `json:"team2_ids" dynamodbav:"team2_ids"`
}

// Participants returns the flat roster, nil-safe.
func (r *Reservation) Participants() []string {
	if r == nil {
		return nil
	}
	return r.ParticipantIDs
}

// TeamRosters returns both team slices, nil-safe.
func (r *Reservation) TeamRosters() (team1, team2 []string) {
	if r == nil {
		return nil, nil
	}
	return r.Team1IDs, r.Team2IDs
}
