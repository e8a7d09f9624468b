package service

// Success variants returned alongside a nil error. Repeating an idempotent
// call yields the "already" variant and changes nothing.

type JoinOutcome string

const (
	Joined        JoinOutcome = "joined"
	AlreadyMember JoinOutcome = "already_member"
)

type LeaveOutcome string

const (
	Left LeaveOutcome = "left"
)

type RSVPOutcome string

const (
	Confirmed     RSVPOutcome = "confirmed"
	AlreadyRSVPed RSVPOutcome = "already_rsvped"
)

type ClaimOutcome string

const (
	Claimed        ClaimOutcome = "claimed"
	AlreadyClaimed ClaimOutcome = "already_claimed"
)
