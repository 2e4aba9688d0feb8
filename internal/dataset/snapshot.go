package dataset

import (
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/Skufu/ddimatrix/internal/drugindex"
	"github.com/Skufu/ddimatrix/internal/drugview"
	"github.com/Skufu/ddimatrix/internal/edges"
	"github.com/Skufu/ddimatrix/internal/matrix"
	"github.com/Skufu/ddimatrix/internal/metrics"
)

var ErrUnknownDrug = errors.New("drug not present in dataset")

// Snapshot is one loaded edge list with the views derived from it. It is
// never modified after NewSnapshot returns.
type Snapshot struct {
	ID       uuid.UUID
	Name     string
	Source   string
	LoadedAt time.Time
	Policy   matrix.ConflictPolicy

	Edges  edges.List
	Drugs  []string
	Matrix *matrix.Matrix
	Index  []drugindex.Entry
}

// Info is the JSON summary of a snapshot.
type Info struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Source    string    `json:"source"`
	LoadedAt  time.Time `json:"loadedAt"`
	Policy    string    `json:"conflictPolicy"`
	Edges     int       `json:"edges"`
	Skipped   int       `json:"skippedRows"`
	Drugs     int       `json:"drugs"`
	Populated int       `json:"populatedPairs"`
}

func NewSnapshot(name, source string, list edges.List, policy matrix.ConflictPolicy) *Snapshot {
	start := time.Now()
	s := &Snapshot{
		ID:       uuid.New(),
		Name:     name,
		Source:   source,
		LoadedAt: start.UTC(),
		Policy:   policy,
		Edges:    list,
		Drugs:    list.Drugs(),
		Matrix:   matrix.Build(list, matrix.WithConflictPolicy(policy)),
		Index:    drugindex.Build(list),
	}
	metrics.ObserveBuild(time.Since(start))
	return s
}

func (s *Snapshot) Info() Info {
	return Info{
		ID:        s.ID.String(),
		Name:      s.Name,
		Source:    s.Source,
		LoadedAt:  s.LoadedAt,
		Policy:    s.Policy.String(),
		Edges:     s.Edges.Len(),
		Skipped:   s.Edges.Skipped,
		Drugs:     len(s.Drugs),
		Populated: s.Matrix.Populated(),
	}
}

// HasDrug reports whether drug is an endpoint of any edge.
func (s *Snapshot) HasDrug(drug string) bool {
	_, found := slices.BinarySearch(s.Drugs, drug)
	return found
}

// View projects the snapshot onto drug.
func (s *Snapshot) View(drug string, opts ...drugview.Option) ([]drugview.PartnerRow, error) {
	if !s.HasDrug(drug) {
		return nil, ErrUnknownDrug
	}
	return drugview.Project(s.Edges, drug, opts...), nil
}

// Heatmap returns the partner x severity grid for drug.
func (s *Snapshot) Heatmap(drug string) (drugview.Heatmap, error) {
	rows, err := s.View(drug)
	if err != nil {
		return drugview.Heatmap{}, err
	}
	return drugview.BuildHeatmap(rows), nil
}
