package repositories

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	other := errors.New("connection reset")
	tests := []struct {
		in   error
		want error
	}{
		{nil, nil},
		{gorm.ErrRecordNotFound, ErrNotFound},
		{fmt.Errorf("create: %w", gorm.ErrForeignKeyViolated), ErrNotFound},
		{gorm.ErrDuplicatedKey, ErrDuplicate},
		{ErrLimitReached, ErrLimitReached},
		{other, other},
	}
	for _, tt := range tests {
		got := translate(tt.in)
		if tt.want == nil {
			if got != nil {
				t.Fatalf("translate(nil) = %v", got)
			}
			continue
		}
		if !errors.Is(got, tt.want) {
			t.Fatalf("translate(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
