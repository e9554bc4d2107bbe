package room

import "context"

type RoomRepository interface {
	List(ctx context.Context) ([]Room, error)
	// Upsert replaces the room and its member list.
	Upsert(ctx context.Context, r Room) error
}
