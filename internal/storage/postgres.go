package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/your-org/attendance/internal/config"
	"github.com/your-org/attendance/internal/models"
)

// ErrEmployeeNotFound distinguishes a missing row from a store outage.
var ErrEmployeeNotFound = errors.New("employee not found")

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(cfg config.DatabaseConfig) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Employees ---

func (s *PostgresStore) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, shift_id, created_at, updated_at FROM employees ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var employees []models.Employee
	for rows.Next() {
		var e models.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.ShiftID, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, nil
}

func (s *PostgresStore) GetEmployee(ctx context.Context, id string) (*models.Employee, error) {
	e := &models.Employee{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, shift_id, created_at, updated_at FROM employees WHERE id = $1`, id,
	).Scan(&e.ID, &e.Name, &e.ShiftID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

func (s *PostgresStore) CountEmployees(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&count)
	return count, err
}

// SaveEncodings upserts an employee and replaces all stored encodings in
// one transaction, so a failed re-registration leaves the previous
// enrollment intact.
func (s *PostgresStore) SaveEncodings(ctx context.Context, id, name string, encodings [][]float32, photoKeys []string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin enrollment: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO employees (id, name) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, updated_at = now()`,
		id, name)
	if err != nil {
		return fmt.Errorf("upsert employee: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM face_encodings WHERE employee_id = $1`, id); err != nil {
		return fmt.Errorf("clear encodings: %w", err)
	}

	for i, enc := range encodings {
		photoKey := ""
		if i < len(photoKeys) {
			photoKey = photoKeys[i]
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO face_encodings (id, employee_id, encoding, photo_key) VALUES ($1, $2, $3, $4)`,
			uuid.New(), id, pgvector.NewVector(enc), photoKey)
		if err != nil {
			return fmt.Errorf("insert encoding %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit enrollment: %w", err)
	}
	return nil
}

// LoadEncodings reads every enrolled employee with its stored encodings,
// for warming the in-memory cache at startup.
func (s *PostgresStore) LoadEncodings(ctx context.Context) ([]models.EmployeeEncodings, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT e.id, e.name, fe.encoding
		 FROM employees e
		 JOIN face_encodings fe ON fe.employee_id = e.id
		 ORDER BY e.id, fe.created_at`)
	if err != nil {
		return nil, fmt.Errorf("load encodings: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*models.EmployeeEncodings)
	var order []string
	for rows.Next() {
		var id, name string
		var vec pgvector.Vector
		if err := rows.Scan(&id, &name, &vec); err != nil {
			return nil, fmt.Errorf("scan encoding: %w", err)
		}
		ee, ok := byID[id]
		if !ok {
			ee = &models.EmployeeEncodings{ID: id, Name: name}
			byID[id] = ee
			order = append(order, id)
		}
		ee.Encodings = append(ee.Encodings, vec.Slice())
	}

	out := make([]models.EmployeeEncodings, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out, nil
}

// DeleteEmployee removes the employee; face encodings and shift
// assignment go with it (ON DELETE CASCADE). Attendance logs are kept.
func (s *PostgresStore) DeleteEmployee(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (s *PostgresStore) AssignShift(ctx context.Context, employeeID string, shiftID *uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE employees SET shift_id = $1, updated_at = now() WHERE id = $2`,
		shiftID, employeeID)
	if err != nil {
		return fmt.Errorf("assign shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

// --- Attendance logs ---

func (s *PostgresStore) InsertLog(ctx context.Context, log *models.AttendanceLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	log.CreatedAt = time.Now().UTC()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO attendance_logs (id, employee_id, timestamp, status, shift_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		log.ID, log.EmployeeID, log.Timestamp, log.Status, log.ShiftID, log.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert attendance log: %w", err)
	}
	return nil
}

// RecentLogs returns an employee's logs since the given time, newest first.
func (s *PostgresStore) RecentLogs(ctx context.Context, employeeID string, since time.Time) ([]models.AttendanceLog, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, employee_id, timestamp, status, shift_id, created_at
		 FROM attendance_logs
		 WHERE employee_id = $1 AND timestamp >= $2
		 ORDER BY timestamp DESC`,
		employeeID, since)
	if err != nil {
		return nil, fmt.Errorf("recent logs: %w", err)
	}
	defer rows.Close()

	var logs []models.AttendanceLog
	for rows.Next() {
		var l models.AttendanceLog
		if err := rows.Scan(&l.ID, &l.EmployeeID, &l.Timestamp, &l.Status, &l.ShiftID, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, nil
}

// LogEntry is a log row joined with the employee name, for stats/reports.
type LogEntry struct {
	ID         uuid.UUID     `json:"id"`
	EmployeeID string        `json:"employee_id"`
	Name       string        `json:"name"`
	Timestamp  time.Time     `json:"timestamp"`
	Status     models.Status `json:"status"`
}

// LogsBetween returns all logs in [from, to], newest first. Logs of
// deleted employees survive with an empty name.
func (s *PostgresStore) LogsBetween(ctx context.Context, from, to time.Time) ([]LogEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT l.id, l.employee_id, COALESCE(e.name, ''), l.timestamp, l.status
		 FROM attendance_logs l
		 LEFT JOIN employees e ON e.id = l.employee_id
		 WHERE l.timestamp >= $1 AND l.timestamp <= $2
		 ORDER BY l.timestamp DESC`,
		from, to)
	if err != nil {
		return nil, fmt.Errorf("logs between: %w", err)
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var e LogEntry
		if err := rows.Scan(&e.ID, &e.EmployeeID, &e.Name, &e.Timestamp, &e.Status); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// --- Settings ---

// GetSettings returns the global schedule row (id=1), or the defaults
// when the row does not exist yet.
func (s *PostgresStore) GetSettings(ctx context.Context) (models.Settings, error) {
	var st models.Settings
	err := s.pool.QueryRow(ctx,
		`SELECT start_time, end_time, late_tolerance_minutes FROM attendance_settings WHERE id = 1`,
	).Scan(&st.StartTime, &st.EndTime, &st.LateToleranceMinutes)
	if err != nil {
		if err == pgx.ErrNoRows {
			return models.DefaultSettings(), nil
		}
		return models.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	return st, nil
}

func (s *PostgresStore) UpsertSettings(ctx context.Context, st models.Settings) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO attendance_settings (id, start_time, end_time, late_tolerance_minutes)
		 VALUES (1, $1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET
		   start_time = EXCLUDED.start_time,
		   end_time = EXCLUDED.end_time,
		   late_tolerance_minutes = EXCLUDED.late_tolerance_minutes`,
		st.StartTime, st.EndTime, st.LateToleranceMinutes)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

// --- Shifts ---

func (s *PostgresStore) CreateShift(ctx context.Context, sh *models.Shift) error {
	sh.ID = uuid.New()
	return s.pool.QueryRow(ctx,
		`INSERT INTO shifts (id, name, start_time, end_time, late_tolerance_minutes)
		 VALUES ($1, $2, $3, $4, $5) RETURNING created_at`,
		sh.ID, sh.Name, sh.StartTime, sh.EndTime, sh.LateToleranceMinutes,
	).Scan(&sh.CreatedAt)
}

func (s *PostgresStore) ListShifts(ctx context.Context) ([]models.Shift, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, start_time, end_time, late_tolerance_minutes, created_at
		 FROM shifts ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	defer rows.Close()

	var shifts []models.Shift
	for rows.Next() {
		var sh models.Shift
		if err := rows.Scan(&sh.ID, &sh.Name, &sh.StartTime, &sh.EndTime, &sh.LateToleranceMinutes, &sh.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan shift: %w", err)
		}
		shifts = append(shifts, sh)
	}
	return shifts, nil
}

func (s *PostgresStore) DeleteShift(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM shifts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("shift not found")
	}
	return nil
}

// GetEmployeeShift returns the employee's assigned shift, or nil when
// none is assigned (the global settings apply).
func (s *PostgresStore) GetEmployeeShift(ctx context.Context, employeeID string) (*models.Shift, error) {
	sh := &models.Shift{}
	err := s.pool.QueryRow(ctx,
		`SELECT s.id, s.name, s.start_time, s.end_time, s.late_tolerance_minutes, s.created_at
		 FROM shifts s
		 JOIN employees e ON e.shift_id = s.id
		 WHERE e.id = $1`, employeeID,
	).Scan(&sh.ID, &sh.Name, &sh.StartTime, &sh.EndTime, &sh.LateToleranceMinutes, &sh.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get employee shift: %w", err)
	}
	return sh, nil
}
