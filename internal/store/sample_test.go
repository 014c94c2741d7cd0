package store

import (
	"testing"
)

func TestSampleRepository_CreateAndList(t *testing.T) {
	s := newTestStore(t)
	repo := s.Samples()

	sample := &Sample{
		Kind:       LabelKindShape,
		LabelIndex: 2,
		Vector:     []float64{0, 0, 0.5, -0.25, 1.0},
	}
	if err := repo.Create(sample); err != nil {
		t.Fatalf("failed to create sample: %v", err)
	}
	if sample.ID == 0 {
		t.Error("sample ID should be assigned after create")
	}

	samples, err := repo.ListByLabel(LabelKindShape, 2)
	if err != nil {
		t.Fatalf("failed to list samples: %v", err)
	}
	if len(samples) != 1 {
		t.Fatalf("listed %d samples, want 1", len(samples))
	}

	got := samples[0]
	if got.Kind != LabelKindShape || got.LabelIndex != 2 {
		t.Errorf("sample identity = (%s, %d), want (shape, 2)", got.Kind, got.LabelIndex)
	}
	if len(got.Vector) != 5 {
		t.Fatalf("vector length %d, want 5", len(got.Vector))
	}
	if got.Vector[3] != -0.25 {
		t.Errorf("vector[3] = %f, want -0.25", got.Vector[3])
	}
}

func TestSampleRepository_KindsAreSeparate(t *testing.T) {
	s := newTestStore(t)
	repo := s.Samples()

	if err := repo.Create(&Sample{Kind: LabelKindShape, LabelIndex: 0, Vector: []float64{1}}); err != nil {
		t.Fatalf("failed to create sample: %v", err)
	}
	if err := repo.Create(&Sample{Kind: LabelKindMotion, LabelIndex: 0, Vector: []float64{2}}); err != nil {
		t.Fatalf("failed to create sample: %v", err)
	}

	shapeCount, err := repo.CountByKind(LabelKindShape)
	if err != nil {
		t.Fatalf("failed to count shape samples: %v", err)
	}
	if shapeCount != 1 {
		t.Errorf("shape sample count = %d, want 1", shapeCount)
	}

	motion, err := repo.ListByKind(LabelKindMotion)
	if err != nil {
		t.Fatalf("failed to list motion samples: %v", err)
	}
	if len(motion) != 1 || motion[0].Vector[0] != 2 {
		t.Errorf("unexpected motion samples: %+v", motion)
	}
}

func TestSampleRepository_DeleteByLabel(t *testing.T) {
	s := newTestStore(t)
	repo := s.Samples()

	for i := 0; i < 3; i++ {
		if err := repo.Create(&Sample{Kind: LabelKindShape, LabelIndex: 1, Vector: []float64{float64(i)}}); err != nil {
			t.Fatalf("failed to create sample: %v", err)
		}
	}
	if err := repo.Create(&Sample{Kind: LabelKindShape, LabelIndex: 2, Vector: []float64{9}}); err != nil {
		t.Fatalf("failed to create sample: %v", err)
	}

	if err := repo.DeleteByLabel(LabelKindShape, 1); err != nil {
		t.Fatalf("failed to delete samples: %v", err)
	}

	remaining, err := repo.ListByKind(LabelKindShape)
	if err != nil {
		t.Fatalf("failed to list samples: %v", err)
	}
	if len(remaining) != 1 || remaining[0].LabelIndex != 2 {
		t.Errorf("unexpected remaining samples: %+v", remaining)
	}
}
