package room

// Room is a dormitory room. Members are employee IDs.
type Room struct {
	Number     string
	ShiftScope *string
	Capacity   int
	MemberIDs  []string
}

func (r Room) HasMember(employeeID string) bool {
	for _, id := range r.MemberIDs {
		if id == employeeID {
			return true
		}
	}
	return false
}
