package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"creature-registry/internal/domain/creatures"
)

// CreaturesRepo guarda cada llamada en una transacción. La fila del contador se toma
// con FOR UPDATE en las escrituras, así dos inserciones concurrentes no se pisan.
type CreaturesRepo struct {
	db *sql.DB
}

func NewCreaturesRepo(db *sql.DB) *CreaturesRepo {
	return &CreaturesRepo{db: db}
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

	return r.inTx(ctx, func(tx *sql.Tx) error {
		return insertCreature(ctx, tx, c)
	})
}

// InsertChild inserta la cría y agrega child/partner al linaje de ambos padres
// en la misma transacción. Las filas de los padres quedan tomadas hasta el commit.
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
	return r.inTx(ctx, func(tx *sql.Tx) error {
		for _, id := range []creatures.ID{first, second} {
			var one int
			err := tx.QueryRowContext(ctx, `SELECT 1 FROM creatures WHERE id = $1 FOR UPDATE`, int64(id)).Scan(&one)
			if errors.Is(err, sql.ErrNoRows) {
				return creatures.ErrInvalidParent
			}
			if err != nil {
				return fmt.Errorf("lock parent %d: %w", id, err)
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
	err := r.inTx(ctx, func(tx *sql.Tx) error {
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

	return r.inTx(ctx, func(tx *sql.Tx) error {
		var owner string
		err := tx.QueryRowContext(ctx, `SELECT owner FROM creatures WHERE id = $1 FOR UPDATE`, int64(id)).Scan(&owner)
		if errors.Is(err, sql.ErrNoRows) {
			return creatures.ErrNotFound
		}
		if err != nil {
			return err
		}
		if owner != from {
			return creatures.ErrNotOwner
		}

		if _, err := tx.ExecContext(ctx, `UPDATE creatures SET owner = $2 WHERE id = $1`, int64(id), to); err != nil {
			return fmt.Errorf("update owner: %w", err)
		}
		// borrar y reinsertar deja el id al final de la lista del receptor
		if _, err := tx.ExecContext(ctx, `DELETE FROM creature_owners WHERE creature_id = $1`, int64(id)); err != nil {
			return fmt.Errorf("unindex owner: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO creature_owners (owner, creature_id) VALUES ($1,$2)`, to, int64(id)); err != nil {
			return fmt.Errorf("index owner: %w", err)
		}
		return nil
	})
}

func (r *CreaturesRepo) ListByOwner(ctx context.Context, owner string) ([]creatures.ID, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT creature_id FROM creature_owners WHERE owner = $1 ORDER BY seq
	`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

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

func (r *CreaturesRepo) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// insertCreature toma el contador con FOR UPDATE antes de escribir.
func insertCreature(ctx context.Context, tx *sql.Tx, c creatures.Creature) error {
	var next int64
	if err := tx.QueryRowContext(ctx, `SELECT next FROM registry_counter WHERE id = 1 FOR UPDATE`).Scan(&next); err != nil {
		return fmt.Errorf("lock counter: %w", err)
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM creatures WHERE id = $1)`, int64(c.ID)).Scan(&exists); err != nil {
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
		VALUES ($1,$2,$3,$4,$5,$6)
	`, int64(c.ID), c.DNA[:], c.Owner, p1, p2, c.CreatedAt.UTC()); err != nil {
		return fmt.Errorf("insert creature: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO creature_owners (owner, creature_id) VALUES ($1,$2)
	`, c.Owner, int64(c.ID)); err != nil {
		return fmt.Errorf("index owner: %w", err)
	}

	if err := writeLineage(ctx, tx, c); err != nil {
		return err
	}

	if int64(c.ID) >= next {
		if _, err := tx.ExecContext(ctx, `UPDATE registry_counter SET next = $1 WHERE id = 1`, int64(c.ID)+1); err != nil {
			return fmt.Errorf("advance counter: %w", err)
		}
	}
	return nil
}

func appendLineage(ctx context.Context, tx *sql.Tx, parent, child, partner creatures.ID) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO creature_lineage (creature_id, pos, child_id, partner_id)
		SELECT $1, COALESCE(MAX(pos), -1) + 1, $2, $3 FROM creature_lineage WHERE creature_id = $1
	`, int64(parent), int64(child), int64(partner)); err != nil {
		return fmt.Errorf("append lineage of %d: %w", parent, err)
	}
	return nil
}

func loadCreature(ctx context.Context, tx *sql.Tx, id creatures.ID) (creatures.Creature, error) {
	q := `SELECT id, dna, owner, parent1_id, parent2_id, created_at FROM creatures WHERE id = $1`

	var (
		c      creatures.Creature
		rawID  int64
		dna    []byte
		p1, p2 sql.NullInt64
	)
	err := tx.QueryRowContext(ctx, q, int64(id)).Scan(&rawID, &dna, &c.Owner, &p1, &p2, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return creatures.Creature{}, creatures.ErrNotFound
	}
	if err != nil {
		return creatures.Creature{}, err
	}

	c.ID = creatures.ID(rawID)
	if c.DNA, err = creatures.DNAFromBytes(dna); err != nil {
		return creatures.Creature{}, fmt.Errorf("creature %d: %w", id, err)
	}
	if p1.Valid && p2.Valid {
		c.Parents = &creatures.Parents{First: creatures.ID(p1.Int64), Second: creatures.ID(p2.Int64)}
	}
	c.CreatedAt = c.CreatedAt.UTC()

	rows, err := tx.QueryContext(ctx, `
		SELECT child_id, partner_id FROM creature_lineage WHERE creature_id = $1 ORDER BY pos
	`, int64(id))
	if err != nil {
		return creatures.Creature{}, err
	}
	defer rows.Close()

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
			INSERT INTO creature_lineage (creature_id, pos, child_id, partner_id) VALUES ($1,$2,$3,$4)
		`, int64(c.ID), i, int64(c.Children[i]), int64(c.Partners[i])); err != nil {
			return fmt.Errorf("write lineage: %w", err)
		}
	}
	return nil
}
