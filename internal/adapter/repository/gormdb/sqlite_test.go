package gormdb

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// --- SQLite-friendly schemas only for tests (no ENUM) ---

type loanSQLite struct {
	ID              uint64         `gorm:"primaryKey;column:id"`
	LoanID          string         `gorm:"size:32;column:loan_id"`
	UserID          string         `gorm:"size:32;column:user_id"`
	UserName        string         `gorm:"column:user_name"`
	Amount          float64        `gorm:"column:amount"`
	TermDays        int            `gorm:"column:term_days"`
	Purpose         string         `gorm:"column:purpose"`
	InterestRate    float64        `gorm:"column:interest_rate"`
	Status          string         `gorm:"type:text;column:status"` // ← no enum
	AIScore         int            `gorm:"column:ai_score"`
	ApplicationDate time.Time      `gorm:"column:application_date"`
	ApprovalDate    *time.Time     `gorm:"column:approval_date"`
	DueDate         *time.Time     `gorm:"column:due_date"`
	RepaymentAmount float64        `gorm:"column:repayment_amount"`
	Schedule        string         `gorm:"type:text;column:schedule"`
	RepaidAmount    float64        `gorm:"column:repaid_amount"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (loanSQLite) TableName() string { return "loans" }

type notificationSQLite struct {
	ID             uint64         `gorm:"primaryKey;column:id"`
	NotificationID string         `gorm:"size:36;column:notification_id"`
	UserID         string         `gorm:"size:32;column:user_id"`
	Title          string         `gorm:"column:title"`
	Message        string         `gorm:"column:message"`
	Type           string         `gorm:"type:text;column:type"` // ← no enum
	Read           bool           `gorm:"column:read"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (notificationSQLite) TableName() string { return "notifications" }

// openTestDB creates an in-memory sqlite DB and migrates ONLY the
// sqlite-safe schemas.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&loanSQLite{}, &notificationSQLite{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
