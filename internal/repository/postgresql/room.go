package postgresql

import (
	"context"
	"fmt"

	"github.com/groundops/ops-backend-go/internal/domain/room"
	"github.com/groundops/ops-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type roomRepositoryImpl struct {
	db *database.DB
}

func NewRoomRepository(db *database.DB) room.RoomRepository {
	return &roomRepositoryImpl{db: db}
}

// List implements room.RoomRepository.
func (r *roomRepositoryImpl) List(ctx context.Context) ([]room.Room, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT r.room_number, r.shift_scope, r.capacity,
			   COALESCE(array_agg(m.employee_id ORDER BY m.employee_id) FILTER (WHERE m.employee_id IS NOT NULL), '{}')
		FROM rooms r
		LEFT JOIN room_members m ON m.room_number = r.room_number
		GROUP BY r.room_number, r.shift_scope, r.capacity
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []room.Room
	for rows.Next() {
		var rm room.Room
		if err := rows.Scan(&rm.Number, &rm.ShiftScope, &rm.Capacity, &rm.MemberIDs); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rooms: %w", err)
	}
	return rooms, nil
}

// Upsert implements room.RoomRepository.
func (r *roomRepositoryImpl) Upsert(ctx context.Context, rm room.Room) error {
	if rm.Number == "" {
		return room.ErrRoomNumberRequired
	}

	return WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO rooms (room_number, shift_scope, capacity)
			VALUES ($1, $2, $3)
			ON CONFLICT (room_number) DO UPDATE SET
				shift_scope = EXCLUDED.shift_scope,
				capacity = EXCLUDED.capacity,
				updated_at = NOW()
		`, rm.Number, rm.ShiftScope, rm.Capacity)
		if err != nil {
			return fmt.Errorf("failed to upsert room: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM room_members WHERE room_number = $1`, rm.Number); err != nil {
			return fmt.Errorf("failed to clear room members: %w", err)
		}
		for _, id := range rm.MemberIDs {
			if _, err := tx.Exec(ctx, `INSERT INTO room_members (room_number, employee_id) VALUES ($1, $2)`, rm.Number, id); err != nil {
				return fmt.Errorf("failed to add room member %s: %w", id, err)
			}
		}
		return nil
	})
}
