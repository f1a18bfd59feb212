package estimate

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/Simplici0/pintorpro/internal/pricing"
)

// IDGenerator hands out identifiers for new estimates.
type IDGenerator interface {
	NextID() int64
}

// MaxSafeID is the largest integer a float64 JSON reader keeps exactly.
const MaxSafeID = 1<<53 - 1

// Node and step widths leave 41 bits of milliseconds, so generated ids stay
// within MaxSafeID until 2079.
const (
	snowflakeNodeBits = 4
	snowflakeStepBits = 8
)

func init() {
	snowflake.NodeBits = snowflakeNodeBits
	snowflake.StepBits = snowflakeStepBits
}

// SnowflakeIDs generates time-ordered ids. A clock moving backwards can repeat
// an id, in which case the later save overwrites the earlier record.
type SnowflakeIDs struct {
	node *snowflake.Node
}

// NewSnowflakeIDs creates a generator for the given node number (0-15).
func NewSnowflakeIDs(node int64) (*SnowflakeIDs, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, fmt.Errorf("create snowflake node: %w", err)
	}
	return &SnowflakeIDs{node: n}, nil
}

func (s *SnowflakeIDs) NextID() int64 {
	return s.node.Generate().Int64()
}

// Draft is the unsaved form state handed to the builder. A non-zero ID marks
// an edit of an existing estimate.
type Draft struct {
	ID          int64
	CreatedDate string
	Client      ClientInfo
	Calculation pricing.Calculation
	LineItems   []LineItem
}

// Builder turns drafts into estimates.
type Builder struct {
	ids IDGenerator
	now func() time.Time
}

// NewBuilder returns a Builder. now defaults to time.Now.
func NewBuilder(ids IDGenerator, now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}
	return &Builder{ids: ids, now: now}
}

// Build validates the draft and freezes it into an Estimate.
func (b *Builder) Build(d Draft) (Estimate, error) {
	client := ClientInfo{
		Name:    strings.TrimSpace(d.Client.Name),
		Address: strings.TrimSpace(d.Client.Address),
		Phone:   strings.TrimSpace(d.Client.Phone),
	}
	if client.Name == "" {
		return Estimate{}, &ValidationError{Field: "client.name", Err: ErrMissingClientName}
	}

	items := make([]LineItem, 0, len(d.LineItems))
	for _, li := range d.LineItems {
		if li.Blank() {
			continue
		}
		items = append(items, LineItem{Description: strings.TrimSpace(li.Description), Amount: li.Amount})
	}

	calc := d.Calculation.Snapshot()
	e := Estimate{
		ID:          d.ID,
		CreatedDate: d.CreatedDate,
		Client:      client,
		Calculation: calc,
		LineItems:   items,
	}
	e.Total = calc.NetPrice.Add(e.ExtrasTotal())

	if e.ID == 0 {
		e.ID = b.ids.NextID()
	}
	if e.CreatedDate == "" {
		e.CreatedDate = b.now().Format(DateLayout)
	}

	return e, nil
}
