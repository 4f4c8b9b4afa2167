package database

import (
	"fmt"
	"time"

	"github.com/arnavshah/student-rota/pkg/config"
	"github.com/arnavshah/student-rota/pkg/scheduler"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// APIKey represents the api_keys table
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"-"`
	KeyPreview string     `json:"key_preview"`
	Name       string     `gorm:"not null" json:"name"`
	RateLimit  int        `gorm:"default:10000" json:"rate_limit"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
}

// APIUsage represents the api_usage table
type APIUsage struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	KeyID         uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date          string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount  int    `gorm:"default:0" json:"request_count"`
	TotalShifts   int    `gorm:"default:0" json:"total_shifts"`
	TotalStudents int    `gorm:"default:0" json:"total_students"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// AllocationRun records the outcome of one rota run
type AllocationRun struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	KeyID          uint      `gorm:"index" json:"key_id"`
	Seed           int64     `json:"seed,string"`
	Shifts         int       `json:"shifts"`
	Students       int       `json:"students"`
	Slots          int       `json:"slots"`
	Filled         int       `json:"filled"`
	Unfilled       int       `json:"unfilled"`
	MinPct         float64   `json:"min_pct"`
	MaxPct         float64   `json:"max_pct"`
	MeanAssigned   float64   `json:"mean_assigned"`
	StdDevAssigned float64   `json:"std_dev_assigned"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewAllocationRun summarises a result for storage under a fresh id
func NewAllocationRun(keyID uint, res *scheduler.Result) *AllocationRun {
	return &AllocationRun{
		ID:             uuid.NewString(),
		KeyID:          keyID,
		Seed:           res.Seed,
		Shifts:         len(res.Schedule),
		Students:       len(res.Applied),
		Slots:          res.Options.Slots,
		Filled:         res.FilledSlots(),
		Unfilled:       res.UnfilledSlots(),
		MinPct:         res.Options.MinPct,
		MaxPct:         res.Options.MaxPct,
		MeanAssigned:   res.Overall.Mean,
		StdDevAssigned: res.Overall.StdDev,
	}
}

// InitDB opens Postgres when DATABASE_URL is set and SQLite at DATA_PATH otherwise, then migrates the schema
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.DatabaseURL != "" {
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DatabaseURL,
			PreferSimpleProtocol: true,
		})
	} else {
		dialector = sqlite.Open(cfg.DataPath)
	}
	return Open(dialector)
}

// Open connects with the given dialector and migrates the schema
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{PrepareStmt: false})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.AutoMigrate(&APIKey{}, &APIUsage{}, &MasterUser{}, &AllocationRun{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

// RecordUsage adds one request to today's usage row with a single upsert
func RecordUsage(db *gorm.DB, keyID uint, shifts, students int) error {
	today := time.Now().Format("2006-01-02")
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count":  gorm.Expr("request_count + ?", 1),
			"total_shifts":   gorm.Expr("total_shifts + ?", shifts),
			"total_students": gorm.Expr("total_students + ?", students),
		}),
	}).Create(&APIUsage{
		KeyID:         keyID,
		Date:          today,
		RequestCount:  1,
		TotalShifts:   shifts,
		TotalStudents: students,
	}).Error
}

// ListRuns returns the most recent runs, optionally restricted to one key
func ListRuns(db *gorm.DB, keyID uint, limit int) ([]AllocationRun, error) {
	q := db.Order("created_at desc").Limit(limit)
	if keyID != 0 {
		q = q.Where("key_id = ?", keyID)
	}
	var runs []AllocationRun
	err := q.Find(&runs).Error
	return runs, err
}
