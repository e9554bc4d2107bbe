package room

import "errors"

var (
	ErrRoomNumberRequired = errors.New("room number is required")
)
