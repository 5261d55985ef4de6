package sqlrepository

import (
	"errors"
	"fmt"
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"mysql duplicate entry", &mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'TXN001' for key 'transaction_reference'"}, true},
		{"wrapped mysql duplicate", fmt.Errorf("insert: %w", &mysqldriver.MySQLError{Number: 1062}), true},
		{"other mysql error", &mysqldriver.MySQLError{Number: 1146, Message: "Table 'payments' doesn't exist"}, false},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, true},
		{"sqlite unique constraint", errors.New("UNIQUE constraint failed: payments.transaction_reference"), true},
		{"unrelated", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isDuplicateError(tt.err))
		})
	}
}
