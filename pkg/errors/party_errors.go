package errors

// Errors surfaced by the party/membership/chat services. Controllers map
// the codes onto HTTP statuses, so each distinguishable failure the client
// can react to gets its own constructor.

func PartyNotFound() error {
	return NotFound("Party not found")
}

func TeamNotFound() error {
	return NotFound("Team not found")
}

func InvalidCode() error {
	return InvalidArg("Invalid code")
}

func CodeAlreadyUsed() error {
	return AlreadyExists("Code already used")
}

func IncorrectPassword() error {
	return Unauthorized("Incorrect password")
}

func NotAPartyMember() error {
	return Forbidden("Not a party member")
}

func NotATeamMember() error {
	return Forbidden("Not a team member")
}

func TeamIsPrivate() error {
	return Forbidden("Team is private")
}

func NotAuthorized() error {
	return Forbidden("Unauthorized")
}

func PartyFull() error {
	return FailedPrecondition("Party is full")
}

func TeamFull() error {
	return FailedPrecondition("Team is full")
}

func AlreadyInATeam() error {
	return FailedPrecondition("Already in a team")
}

func MaxTeamsReached() error {
	return FailedPrecondition("Maximum teams reached")
}

func AlreadyAnAdmin() error {
	return AlreadyExists("User is already an admin")
}

func NotAnAdmin() error {
	return InvalidArg("User is not an admin")
}

func LastAdmin() error {
	return FailedPrecondition("Cannot remove the last admin")
}

func NotAMemberTarget() error {
	return InvalidArg("User is not a party member")
}
