package profiles

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/TumaeProject/tumae-be/internal/domain/enums"
)

func TestNormalizeIDs(t *testing.T) {
	cases := []struct {
		name string
		in   []int64
		want []int64
	}{
		{"nil", nil, nil},
		{"dedupes and sorts", []int64{3, 1, 3, 2, 1}, []int64{1, 2, 3}},
		{"drops non-positive", []int64{0, -4, 5}, []int64{5}},
		{"all invalid", []int64{0, -1}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := normalizeIDs(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("unexpected result: got %v want %v", got, tc.want)
			}
		})
	}
}

func TestSavePriceRangeValidation(t *testing.T) {
	svc := NewService(Dependencies{})

	min := int64(-5)
	if err := svc.SavePriceRange(context.Background(), 1, enums.RoleStudent, &min, nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("unexpected error for negative min: %v", err)
	}

	lo, hi := int64(50000), int64(20000)
	if err := svc.SavePriceRange(context.Background(), 1, enums.RoleStudent, &lo, &hi); !errors.Is(err, ErrValidation) {
		t.Fatalf("unexpected error for inverted range: %v", err)
	}

	if err := svc.SavePriceRange(context.Background(), 1, enums.Role("admin"), nil, nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("unexpected error for bad role: %v", err)
	}
}

func TestReplaceAttributesValidation(t *testing.T) {
	svc := NewService(Dependencies{})

	if err := svc.ReplaceAttributes(context.Background(), 0, enums.RoleTutor, AttributeSubmission{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("unexpected error for zero user id: %v", err)
	}
	if err := svc.ReplaceAttributes(context.Background(), 1, enums.Role(""), AttributeSubmission{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("unexpected error for empty role: %v", err)
	}
}
