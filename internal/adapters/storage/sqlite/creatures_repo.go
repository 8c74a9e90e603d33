package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"creature-registry/internal/domain/creatures"
)

type CreaturesRepo struct {
	db *sql.DB
}

var _ creatures.Repository = (*CreaturesRepo)(nil)

func (r *CreaturesRepo) Counter(ctx context.Context) (creatures.ID, error) {
	var next int64
	if err := r.db.QueryRowContext(ctx, `SELECT next FROM registry_counter WHERE id = 1`).Scan(&next); err != nil {
		return 0, fmt.Errorf("read counter: %w", err)
	}
	return creatures.ID(next), nil
}

func (r *CreaturesRepo) Insert(ctx context.Context, c creatures.Creature) error {
	if strings.TrimSpace(c.Owner) == "" {
		return creatures.ErrInvalidInput
	}
	if c.ID == creatures.MaxID {
		return creatures.ErrExhausted
	}

	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		return insertCreature(ctx, tx, c)
	})
}

// InsertChild inserta la cría y agrega child/partner al linaje de ambos padres
// en la misma transacción.
func (r *CreaturesRepo) InsertChild(ctx context.Context, child creatures.Creature) error {
	if child.Parents == nil || strings.TrimSpace(child.Owner) == "" {
		return creatures.ErrInvalidInput
	}
	if child.Parents.First == child.Parents.Second {
		return creatures.ErrSameParent
	}
	if child.ID == creatures.MaxID {
		return creatures.ErrExhausted
	}

	first, second := child.Parents.First, child.Parents.Second
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, id := range []creatures.ID{first, second} {
			var exists bool
			if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM creatures WHERE id = ?)`, int64(id)).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return creatures.ErrInvalidParent
			}
		}
		if err := insertCreature(ctx, tx, child); err != nil {
			return err
		}
		if err := appendLineage(ctx, tx, first, child.ID, second); err != nil {
			return err
		}
		return appendLineage(ctx, tx, second, child.ID, first)
	})
}

func (r *CreaturesRepo) Get(ctx context.Context, id creatures.ID) (creatures.Creature, error) {
	var out creatures.Creature
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		c, err := loadCreature(ctx, tx, id)
		out = c
		return err
	})
	return out, err
}

func (r *CreaturesRepo) ChangeOwner(ctx context.Context, id creatures.ID, from, to string) error {
	if strings.TrimSpace(to) == "" {
		return creatures.ErrInvalidInput
	}

	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		var owner string
		err := tx.QueryRowContext(ctx, `SELECT owner FROM creatures WHERE id = ?`, int64(id)).Scan(&owner)
		if errors.Is(err, sql.ErrNoRows) {
			return creatures.ErrNotFound
		}
		if err != nil {
			return err
		}
		if owner != from {
			return creatures.ErrNotOwner
		}

		if _, err := tx.ExecContext(ctx, `UPDATE creatures SET owner = ? WHERE id = ?`, to, int64(id)); err != nil {
			return fmt.Errorf("update owner: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM creature_owners WHERE creature_id = ?`, int64(id)); err != nil {
			return fmt.Errorf("unindex owner: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO creature_owners (owner, creature_id) VALUES (?,?)`, to, int64(id)); err != nil {
			return fmt.Errorf("index owner: %w", err)
		}
		return nil
	})
}

func (r *CreaturesRepo) ListByOwner(ctx context.Context, owner string) ([]creatures.ID, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT creature_id FROM creature_owners WHERE owner = ? ORDER BY seq`, owner)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]creatures.ID, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, creatures.ID(id))
	}
	return out, rows.Err()
}

func insertCreature(ctx context.Context, tx *sql.Tx, c creatures.Creature) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM creatures WHERE id = ?)`, int64(c.ID)).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return creatures.ErrDuplicate
	}

	var p1, p2 sql.NullInt64
	if c.Parents != nil {
		p1 = sql.NullInt64{Int64: int64(c.Parents.First), Valid: true}
		p2 = sql.NullInt64{Int64: int64(c.Parents.Second), Valid: true}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO creatures (id, dna, owner, parent1_id, parent2_id, created_at)
		VALUES (?,?,?,?,?,?)
	`, int64(c.ID), c.DNA[:], c.Owner, p1, p2, toNanos(c.CreatedAt)); err != nil {
		return fmt.Errorf("insert creature: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO creature_owners (owner, creature_id) VALUES (?,?)`, c.Owner, int64(c.ID)); err != nil {
		return fmt.Errorf("index owner: %w", err)
	}
	if err := writeLineage(ctx, tx, c); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE registry_counter SET next = ? WHERE id = 1 AND next <= ?
	`, int64(c.ID)+1, int64(c.ID)); err != nil {
		return fmt.Errorf("advance counter: %w", err)
	}
	return nil
}

// appendLineage agrega una fila al final del linaje de parent.
func appendLineage(ctx context.Context, tx *sql.Tx, parent, child, partner creatures.ID) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO creature_lineage (creature_id, pos, child_id, partner_id)
		SELECT ?, COALESCE(MAX(pos), -1) + 1, ?, ? FROM creature_lineage WHERE creature_id = ?
	`, int64(parent), int64(child), int64(partner), int64(parent)); err != nil {
		return fmt.Errorf("append lineage of %d: %w", parent, err)
	}
	return nil
}

func loadCreature(ctx context.Context, tx *sql.Tx, id creatures.ID) (creatures.Creature, error) {
	var (
		c         creatures.Creature
		rawID     int64
		dna       []byte
		p1, p2    sql.NullInt64
		createdAt int64
	)
	err := tx.QueryRowContext(ctx, `
		SELECT id, dna, owner, parent1_id, parent2_id, created_at FROM creatures WHERE id = ?
	`, int64(id)).Scan(&rawID, &dna, &c.Owner, &p1, &p2, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return creatures.Creature{}, creatures.ErrNotFound
	}
	if err != nil {
		return creatures.Creature{}, err
	}

	c.ID = creatures.ID(rawID)
	c.CreatedAt = fromNanos(createdAt)
	if c.DNA, err = creatures.DNAFromBytes(dna); err != nil {
		return creatures.Creature{}, fmt.Errorf("creature %d: %w", id, err)
	}
	if p1.Valid && p2.Valid {
		c.Parents = &creatures.Parents{First: creatures.ID(p1.Int64), Second: creatures.ID(p2.Int64)}
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT child_id, partner_id FROM creature_lineage WHERE creature_id = ? ORDER BY pos
	`, int64(id))
	if err != nil {
		return creatures.Creature{}, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var child, partner int64
		if err := rows.Scan(&child, &partner); err != nil {
			return creatures.Creature{}, err
		}
		c.Children = append(c.Children, creatures.ID(child))
		c.Partners = append(c.Partners, creatures.ID(partner))
	}
	return c, rows.Err()
}

func writeLineage(ctx context.Context, tx *sql.Tx, c creatures.Creature) error {
	if len(c.Children) != len(c.Partners) {
		return fmt.Errorf("creature %d: children and partners out of step", c.ID)
	}
	for i := range c.Children {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO creature_lineage (creature_id, pos, child_id, partner_id) VALUES (?,?,?,?)
		`, int64(c.ID), i, int64(c.Children[i]), int64(c.Partners[i])); err != nil {
			return fmt.Errorf("write lineage: %w", err)
		}
	}
	return nil
}
