package creatures

import (
	"encoding/hex"
	"fmt"
	"math"
	"slices"
	"strconv"
	"time"
)

// ID identifica una criatura. Se asigna en orden estrictamente creciente y nunca se reutiliza.
type ID uint32

// MaxID es el valor máximo representable; el contador nunca lo asigna.
const MaxID ID = math.MaxUint32

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseID convierte el texto decimal de una URL o flag a ID.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: creature id %q", ErrInvalidInput, s)
	}
	return ID(n), nil
}

// DNALen es el largo fijo del código genético.
const DNALen = 16

// DNA es el código genético. El tipo array garantiza siempre 16 bytes.
type DNA [DNALen]byte

func (d DNA) String() string {
	return hex.EncodeToString(d[:])
}

// MarshalText serializa el DNA como 32 caracteres hex (JSON y columnas de texto).
func (d DNA) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *DNA) UnmarshalText(b []byte) error {
	if len(b) != DNALen*2 {
		return fmt.Errorf("%w: dna must be %d hex chars", ErrInvalidInput, DNALen*2)
	}
	_, err := hex.Decode(d[:], b)
	if err != nil {
		return fmt.Errorf("%w: dna: %v", ErrInvalidInput, err)
	}
	return nil
}

// DNAFromBytes copia un slice de exactamente 16 bytes (p.ej. leído de la DB).
func DNAFromBytes(b []byte) (DNA, error) {
	var d DNA
	if len(b) != DNALen {
		return d, fmt.Errorf("dna length %d, want %d", len(b), DNALen)
	}
	copy(d[:], b)
	return d, nil
}

// Parents es el par de padres de una criatura criada. Nunca se modifica.
type Parents struct {
	First  ID
	Second ID
}

// Creature es el activo registrado.
type Creature struct {
	ID    ID
	DNA   DNA
	Owner string

	// nil para criaturas génesis.
	Parents *Parents

	// Children y Partners son paralelos: una entrada por cada cruza en la que participó.
	Children []ID
	Partners []ID

	CreatedAt time.Time
}

// IsGenesis indica si la criatura se creó sin padres.
func (c Creature) IsGenesis() bool {
	return c.Parents == nil
}

// Clone devuelve una copia sin slices ni punteros compartidos.
// Los stores la usan para que nadie mute el estado guardado por fuera.
func (c Creature) Clone() Creature {
	out := c
	if c.Parents != nil {
		p := *c.Parents
		out.Parents = &p
	}
	out.Children = slices.Clone(c.Children)
	out.Partners = slices.Clone(c.Partners)
	return out
}

// Lineage agrupa la genealogía inmediata de una criatura.
type Lineage struct {
	ID       ID
	Parents  *Parents
	Children []ID
	Partners []ID
	Siblings []ID
}
