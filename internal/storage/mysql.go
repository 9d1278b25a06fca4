package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cv-insight/internal/config"
	"cv-insight/internal/constants"
	"cv-insight/internal/storage/models"
)

var mysqlTracer = otel.Tracer("cv-insight/storage/mysql")

// ErrRecordNotFound aliases the GORM sentinel so callers do not import gorm.
var ErrRecordNotFound = gorm.ErrRecordNotFound

type gormSpanKey struct{}

// GormTracingPlugin adds an OpenTelemetry span around every GORM operation.
type GormTracingPlugin struct {
	tracer trace.Tracer
	dbName string
}

// NewGormTracingPlugin creates the tracing plugin for a database.
func NewGormTracingPlugin(dbName string) *GormTracingPlugin {
	return &GormTracingPlugin{
		tracer: mysqlTracer,
		dbName: dbName,
	}
}

func (p *GormTracingPlugin) Name() string {
	return "GormOpenTelemetryPlugin"
}

// Initialize registers before/after callbacks for every CRUD verb.
func (p *GormTracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()

	registrations := []struct {
		op       string
		register func(before, after func(*gorm.DB)) error
	}{
		{"CREATE", func(before, after func(*gorm.DB)) error {
			if err := cb.Create().Before("gorm:create").Register("otel:before_create", before); err != nil {
				return err
			}
			return cb.Create().After("gorm:create").Register("otel:after_create", after)
		}},
		{"SELECT", func(before, after func(*gorm.DB)) error {
			if err := cb.Query().Before("gorm:query").Register("otel:before_query", before); err != nil {
				return err
			}
			return cb.Query().After("gorm:query").Register("otel:after_query", after)
		}},
		{"UPDATE", func(before, after func(*gorm.DB)) error {
			if err := cb.Update().Before("gorm:update").Register("otel:before_update", before); err != nil {
				return err
			}
			return cb.Update().After("gorm:update").Register("otel:after_update", after)
		}},
		{"DELETE", func(before, after func(*gorm.DB)) error {
			if err := cb.Delete().Before("gorm:delete").Register("otel:before_delete", before); err != nil {
				return err
			}
			return cb.Delete().After("gorm:delete").Register("otel:after_delete", after)
		}},
	}

	for _, r := range registrations {
		if err := r.register(p.before(r.op), p.after()); err != nil {
			return err
		}
	}
	return nil
}

func (p *GormTracingPlugin) before(operation string) func(db *gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}

		tableName := db.Statement.Table
		if tableName == "" {
			tableName = "unknown"
		}

		newCtx, _ := p.tracer.Start(ctx, fmt.Sprintf("%s %s", operation, tableName),
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.DBSystemMySQL,
				attribute.String("db.name", p.dbName),
				attribute.String("db.operation", operation),
				attribute.String("db.sql.table", tableName),
			),
		)
		db.Statement.Context = context.WithValue(newCtx, gormSpanKey{}, trace.SpanFromContext(newCtx))
	}
}

func (p *GormTracingPlugin) after() func(db *gorm.DB) {
	return func(db *gorm.DB) {
		span, ok := db.Statement.Context.Value(gormSpanKey{}).(trace.Span)
		if !ok {
			return
		}
		defer span.End()

		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))

		switch {
		case db.Error == nil:
			span.SetStatus(codes.Ok, "")
		case errors.Is(db.Error, gorm.ErrRecordNotFound):
			// Not-found is a normal outcome, not a failure.
			span.SetAttributes(attribute.String("error.type", "record_not_found"))
			span.SetStatus(codes.Ok, "record not found")
		default:
			span.RecordError(db.Error)
			span.SetStatus(codes.Error, db.Error.Error())
		}
	}
}

// MySQL provides relational persistence for users, reports and contact
// messages.
type MySQL struct {
	db  *gorm.DB
	cfg *config.MySQLConfig
}

// NewMySQL connects, registers tracing and migrates the schema.
func NewMySQL(cfg *config.MySQLConfig) (*MySQL, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mysql config must not be nil")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.ConnectTimeoutSeconds)

	var logLevel logger.LogLevel
	switch cfg.LogLevel {
	case 1:
		logLevel = logger.Silent
	case 2:
		logLevel = logger.Error
	case 3:
		logLevel = logger.Warn
	default:
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logLevel),
		PrepareStmt:                              true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	if err := db.Use(NewGormTracingPlugin(cfg.Database)); err != nil {
		return nil, fmt.Errorf("register tracing plugin: %w", err)
	}

	m := &MySQL{db: db, cfg: cfg}
	if err := m.autoMigrateSchema(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return m, nil
}

// autoMigrateSchema migrates all models with SQL logging silenced; migration
// chatter drowns out real queries otherwise.
func (m *MySQL) autoMigrateSchema() error {
	silentLogger := logger.New(
		log.New(log.Writer(), "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
		},
	)
	silentDB := m.db.Session(&gorm.Session{Logger: silentLogger})

	return silentDB.AutoMigrate(
		&models.User{},
		&models.Report{},
		&models.ContactMessage{},
	)
}

// DB exposes the underlying GORM handle.
func (m *MySQL) DB() *gorm.DB {
	return m.db
}

// Close releases the connection pool.
func (m *MySQL) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CreateUser inserts a new account.
func (m *MySQL) CreateUser(ctx context.Context, user *models.User) error {
	return m.db.WithContext(ctx).Create(user).Error
}

// GetUserByEmail fetches an account, ErrRecordNotFound when absent.
func (m *MySQL) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := m.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateReport persists one finished analysis.
func (m *MySQL) CreateReport(ctx context.Context, report *models.Report) error {
	return m.db.WithContext(ctx).Create(report).Error
}

// GetReport fetches a report by ID.
func (m *MySQL) GetReport(ctx context.Context, reportID string) (*models.Report, error) {
	var report models.Report
	if err := m.db.WithContext(ctx).Where("report_id = ?", reportID).First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// ListReportsByUser returns a user's reports, newest first.
func (m *MySQL) ListReportsByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Report, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var total int64
	query := m.db.WithContext(ctx).Model(&models.Report{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []models.Report
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reports).Error
	return reports, total, err
}

// DashboardStats aggregates report counts for the admin dashboard.
type DashboardStats struct {
	TotalReports    int64    `json:"total_reports"`
	CVOnlyReports   int64    `json:"cv_only_reports"`
	MatchReports    int64    `json:"match_reports"`
	MockReports     int64    `json:"mock_reports"`
	AvgMatchPercent *float64 `json:"avg_match_percent,omitempty"`
}

// GetDashboardStats computes aggregate report statistics.
func (m *MySQL) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	db := m.db.WithContext(ctx).Model(&models.Report{})

	if err := db.Count(&stats.TotalReports).Error; err != nil {
		return nil, err
	}
	if err := m.db.WithContext(ctx).Model(&models.Report{}).
		Where("analysis_type = ?", constants.AnalysisTypeCVOnly).Count(&stats.CVOnlyReports).Error; err != nil {
		return nil, err
	}
	if err := m.db.WithContext(ctx).Model(&models.Report{}).
		Where("analysis_type = ?", constants.AnalysisTypeCVJDMatch).Count(&stats.MatchReports).Error; err != nil {
		return nil, err
	}
	if err := m.db.WithContext(ctx).Model(&models.Report{}).
		Where("used_mock = ?", true).Count(&stats.MockReports).Error; err != nil {
		return nil, err
	}

	var avg *float64
	if err := m.db.WithContext(ctx).Model(&models.Report{}).
		Where("match_percentage IS NOT NULL").
		Select("AVG(match_percentage)").Scan(&avg).Error; err != nil {
		return nil, err
	}
	stats.AvgMatchPercent = avg
	return &stats, nil
}

// CreateContactMessage persists a contact-form submission.
func (m *MySQL) CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	return m.db.WithContext(ctx).Create(msg).Error
}

// MarkContactMessageSent flags a message after the email went out.
func (m *MySQL) MarkContactMessageSent(ctx context.Context, messageID string) error {
	return m.db.WithContext(ctx).Model(&models.ContactMessage{}).
		Where("message_id = ?", messageID).
		Update("sent", true).Error
}
