package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/groundops/ops-backend-go/internal/domain/room"
	"github.com/groundops/ops-backend-go/internal/pkg/database"
)

type roomRepositoryImpl struct {
	db *database.SQLiteDB
}

func NewRoomRepository(db *database.SQLiteDB) room.RoomRepository {
	return &roomRepositoryImpl{db: db}
}

func (r *roomRepositoryImpl) List(ctx context.Context) ([]room.Room, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.QueryContext(ctx, `SELECT room_number, shift_scope, capacity FROM rooms`)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	var rooms []room.Room
	index := make(map[string]int)
	for rows.Next() {
		var rm room.Room
		if err := rows.Scan(&rm.Number, &rm.ShiftScope, &rm.Capacity); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rm.MemberIDs = []string{}
		index[rm.Number] = len(rooms)
		rooms = append(rooms, rm)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rooms: %w", err)
	}

	rows, err = q.QueryContext(ctx, `SELECT room_number, employee_id FROM room_members ORDER BY room_number, employee_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list room members: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var number, employeeID string
		if err := rows.Scan(&number, &employeeID); err != nil {
			return nil, fmt.Errorf("failed to scan room member: %w", err)
		}
		if i, ok := index[number]; ok {
			rooms[i].MemberIDs = append(rooms[i].MemberIDs, employeeID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate room members: %w", err)
	}
	return rooms, nil
}

func (r *roomRepositoryImpl) Upsert(ctx context.Context, rm room.Room) error {
	if rm.Number == "" {
		return room.ErrRoomNumberRequired
	}

	return WithTransaction(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO rooms (room_number, shift_scope, capacity)
			VALUES (?, ?, ?)
			ON CONFLICT (room_number) DO UPDATE SET
				shift_scope = excluded.shift_scope,
				capacity = excluded.capacity
		`, rm.Number, rm.ShiftScope, rm.Capacity)
		if err != nil {
			return fmt.Errorf("failed to upsert room: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM room_members WHERE room_number = ?`, rm.Number); err != nil {
			return fmt.Errorf("failed to clear room members: %w", err)
		}
		for _, id := range rm.MemberIDs {
			if _, err := tx.ExecContext(ctx, `INSERT INTO room_members (room_number, employee_id) VALUES (?, ?)`, rm.Number, id); err != nil {
				return fmt.Errorf("failed to add room member %s: %w", id, err)
			}
		}
		return nil
	})
}
