package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/clockwise/attendance-tracker/internal/core/domain"
	"github.com/clockwise/attendance-tracker/internal/core/ports"
)

// DBConfig tunes the data access layer. Zero values fall back to defaults.
type DBConfig struct {
	// Location decides which calendar day "today" is. Defaults to time.Local.
	Location *time.Location
	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
	// BcryptCost is the hashing cost for stored passwords.
	BcryptCost int
	// AdminUsername and AdminPassword seed the first admin account.
	AdminUsername string
	AdminPassword string
}

// DB implements ports.Database over a KVStore. Every mutation touching more
// than one record runs inside a single store transaction.
type DB struct {
	store ports.KVStore
	cfg   DBConfig
	log   zerolog.Logger
}

var _ ports.Database = (*DB)(nil)

func NewDB(store ports.KVStore, cfg DBConfig, log zerolog.Logger) *DB {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.AdminUsername == "" {
		cfg.AdminUsername = "admin"
	}
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = "admin123"
	}
	return &DB{store: store, cfg: cfg, log: log}
}

// Initialize seeds an empty store with the admin account, empty collections
// and fresh sequences. It does nothing once users exist.
func (d *DB) Initialize(ctx context.Context) error {
	var users []domain.User
	found, err := d.store.Get(ctx, ports.KeyUsers, &users)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	if found {
		return nil
	}

	hash, err := hashPassword(d.cfg.AdminPassword, d.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("initialize: hash admin password: %w", err)
	}

	seeded := false
	err = d.store.Update(ctx, ports.AllKeys, func(tx ports.KVTx) error {
		seeded = false
		var existing []domain.User
		ok, err := tx.Get(ports.KeyUsers, &existing)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		admin := domain.User{
			ID:       1,
			Username: d.cfg.AdminUsername,
			Password: hash,
			IsAdmin:  true,
		}
		if err := tx.Set(ports.KeyUsers, []domain.User{admin}); err != nil {
			return err
		}
		if err := tx.Set(ports.KeyEmployees, []domain.Employee{}); err != nil {
			return err
		}
		if err := tx.Set(ports.KeyAttendance, []domain.Attendance{}); err != nil {
			return err
		}
		seeded = true
		return tx.Set(ports.KeySequences, domain.Sequences{Users: 1})
	})
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	if seeded {
		d.log.Info().Str("admin", d.cfg.AdminUsername).Msg("store seeded")
	}
	return nil
}

// GetUser returns the user whose username and password match and whose
// admin flag passes filter, or nil when there is none.
func (d *DB) GetUser(ctx context.Context, username, password string, filter domain.AdminFilter) (*domain.User, error) {
	var users []domain.User
	if _, err := d.store.Get(ctx, ports.KeyUsers, &users); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	for i := range users {
		u := users[i]
		if u.Username != username || !filter.Matches(u.IsAdmin) {
			continue
		}
		if !checkPassword(u.Password, password) {
			continue
		}
		return &u, nil
	}
	return nil, nil
}

// RegisterEmployee creates a non-admin user and its employee record
// together, or neither.
func (d *DB) RegisterEmployee(ctx context.Context, in ports.RegisterEmployeeInput) (*domain.Employee, error) {
	hash, err := hashPassword(in.Password, d.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("register employee: hash password: %w", err)
	}
	createdAt := d.cfg.Now().UTC()

	var created domain.Employee
	keys := []string{ports.KeyUsers, ports.KeyEmployees, ports.KeySequences}
	err = d.store.Update(ctx, keys, func(tx ports.KVTx) error {
		var (
			users     []domain.User
			employees []domain.Employee
			seq       domain.Sequences
		)
		if _, err := tx.Get(ports.KeyUsers, &users); err != nil {
			return err
		}
		if _, err := tx.Get(ports.KeyEmployees, &employees); err != nil {
			return err
		}
		if _, err := tx.Get(ports.KeySequences, &seq); err != nil {
			return err
		}

		for _, u := range users {
			if u.Username == in.Username {
				return domain.ErrDuplicateUsername
			}
		}

		userID := seq.Users + 1
		employeeID := seq.Employees + 1

		user := domain.User{
			ID:         userID,
			Username:   in.Username,
			Password:   hash,
			IsAdmin:    false,
			EmployeeID: &employeeID,
		}
		employee := domain.Employee{
			ID:         employeeID,
			Name:       in.Name,
			Email:      in.Email,
			Position:   in.Position,
			Department: in.Department,
			CreatedAt:  createdAt,
			UserID:     userID,
		}

		seq.Users = userID
		seq.Employees = employeeID

		if err := tx.Set(ports.KeyUsers, append(users, user)); err != nil {
			return err
		}
		if err := tx.Set(ports.KeyEmployees, append(employees, employee)); err != nil {
			return err
		}
		if err := tx.Set(ports.KeySequences, seq); err != nil {
			return err
		}
		created = employee
		return nil
	})
	if err != nil {
		return nil, err
	}

	d.log.Info().
		Int("employee_id", created.ID).
		Int("user_id", created.UserID).
		Str("username", in.Username).
		Msg("employee registered")

	return &created, nil
}

// GetEmployees returns every employee in insertion order.
func (d *DB) GetEmployees(ctx context.Context) ([]domain.Employee, error) {
	employees := []domain.Employee{}
	if _, err := d.store.Get(ctx, ports.KeyEmployees, &employees); err != nil {
		return nil, fmt.Errorf("get employees: %w", err)
	}
	return employees, nil
}

func (d *DB) GetEmployee(ctx context.Context, id int) (*domain.Employee, error) {
	employees, err := d.GetEmployees(ctx)
	if err != nil {
		return nil, err
	}
	for i := range employees {
		if employees[i].ID == id {
			e := employees[i]
			return &e, nil
		}
	}
	return nil, nil
}

// RemoveEmployee deletes the employee, its user and all of its attendance
// in one transaction. Unknown ids are a no-op.
func (d *DB) RemoveEmployee(ctx context.Context, id int) error {
	removed := false
	keys := []string{ports.KeyUsers, ports.KeyEmployees, ports.KeyAttendance}
	err := d.store.Update(ctx, keys, func(tx ports.KVTx) error {
		removed = false
		var (
			users      []domain.User
			employees  []domain.Employee
			attendance []domain.Attendance
		)
		if _, err := tx.Get(ports.KeyEmployees, &employees); err != nil {
			return err
		}

		var target *domain.Employee
		for i := range employees {
			if employees[i].ID == id {
				target = &employees[i]
				break
			}
		}
		if target == nil {
			return nil
		}

		if _, err := tx.Get(ports.KeyUsers, &users); err != nil {
			return err
		}
		if _, err := tx.Get(ports.KeyAttendance, &attendance); err != nil {
			return err
		}

		keptEmployees := make([]domain.Employee, 0, len(employees))
		for _, e := range employees {
			if e.ID != id {
				keptEmployees = append(keptEmployees, e)
			}
		}
		keptUsers := make([]domain.User, 0, len(users))
		for _, u := range users {
			if u.ID != target.UserID {
				keptUsers = append(keptUsers, u)
			}
		}
		keptAttendance := make([]domain.Attendance, 0, len(attendance))
		for _, a := range attendance {
			if a.EmployeeID != id {
				keptAttendance = append(keptAttendance, a)
			}
		}

		if err := tx.Set(ports.KeyEmployees, keptEmployees); err != nil {
			return err
		}
		if err := tx.Set(ports.KeyUsers, keptUsers); err != nil {
			return err
		}
		if err := tx.Set(ports.KeyAttendance, keptAttendance); err != nil {
			return err
		}
		removed = true
		return nil
	})
	if err != nil {
		return fmt.Errorf("remove employee %d: %w", id, err)
	}

	if removed {
		d.log.Info().Int("employee_id", id).Msg("employee removed")
	}
	return nil
}

func (d *DB) GetAttendance(ctx context.Context, date string) ([]domain.Attendance, error) {
	records, err := d.allAttendance(ctx)
	if err != nil {
		return nil, err
	}
	if date == "" {
		return records, nil
	}
	return filterAttendance(records, func(a domain.Attendance) bool { return a.Date == date }), nil
}

// GetAttendanceForPeriod returns the records dated within the day, month or
// year named by ref.
func (d *DB) GetAttendanceForPeriod(ctx context.Context, period domain.Period, ref string) ([]domain.Attendance, error) {
	prefix, err := period.DatePrefix(ref)
	if err != nil {
		return nil, err
	}
	records, err := d.allAttendance(ctx)
	if err != nil {
		return nil, err
	}
	return filterAttendance(records, func(a domain.Attendance) bool {
		return strings.HasPrefix(a.Date, prefix)
	}), nil
}

func (d *DB) GetEmployeeAttendance(ctx context.Context, employeeID int) ([]domain.Attendance, error) {
	records, err := d.allAttendance(ctx)
	if err != nil {
		return nil, err
	}
	return filterAttendance(records, func(a domain.Attendance) bool { return a.EmployeeID == employeeID }), nil
}

// MarkAttendance applies the daily check-in/check-out rule:
//
//	no record today  + checkIn  → new record
//	no record today  + checkOut → ErrMustCheckInFirst
//	open record      + checkOut → record closed
//	any other record            → ErrAlreadyCheckedIn / ErrAlreadyCheckedOut
//
// Marks for an employee id that is not registered fail with
// ErrEmployeeNotFound.
func (d *DB) MarkAttendance(ctx context.Context, employeeID int, kind domain.AttendanceKind) (*domain.Attendance, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidAttendanceKind
	}

	now := d.cfg.Now()
	today := d.dateOf(now)
	stamp := now.UTC()

	var result domain.Attendance
	keys := []string{ports.KeyEmployees, ports.KeyAttendance, ports.KeySequences}
	err := d.store.Update(ctx, keys, func(tx ports.KVTx) error {
		var (
			employees []domain.Employee
			records   []domain.Attendance
			seq       domain.Sequences
		)
		if _, err := tx.Get(ports.KeyEmployees, &employees); err != nil {
			return err
		}
		if !hasEmployee(employees, employeeID) {
			return domain.ErrEmployeeNotFound
		}
		if _, err := tx.Get(ports.KeyAttendance, &records); err != nil {
			return err
		}

		for i := range records {
			rec := &records[i]
			if rec.EmployeeID != employeeID || rec.Date != today {
				continue
			}
			if kind == domain.CheckOut && !rec.CheckedOut() {
				rec.CheckOut = &stamp
				result = *rec
				return tx.Set(ports.KeyAttendance, records)
			}
			if kind == domain.CheckIn {
				return domain.ErrAlreadyCheckedIn
			}
			return domain.ErrAlreadyCheckedOut
		}

		if kind == domain.CheckOut {
			return domain.ErrMustCheckInFirst
		}

		if _, err := tx.Get(ports.KeySequences, &seq); err != nil {
			return err
		}
		rec := domain.Attendance{
			ID:         seq.Attendance + 1,
			EmployeeID: employeeID,
			CheckIn:    stamp,
			CheckOut:   nil,
			Date:       today,
		}
		seq.Attendance = rec.ID

		if err := tx.Set(ports.KeyAttendance, append(records, rec)); err != nil {
			return err
		}
		if err := tx.Set(ports.KeySequences, seq); err != nil {
			return err
		}
		result = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	d.log.Info().
		Int("employee_id", employeeID).
		Str("kind", string(kind)).
		Str("date", today).
		Msg("attendance marked")

	return &result, nil
}

// Today returns the current attendance date in the configured location.
func (d *DB) Today() string {
	return d.dateOf(d.cfg.Now())
}

func (d *DB) dateOf(t time.Time) string {
	return t.In(d.cfg.Location).Format(domain.DateLayout)
}

func (d *DB) allAttendance(ctx context.Context) ([]domain.Attendance, error) {
	records := []domain.Attendance{}
	if _, err := d.store.Get(ctx, ports.KeyAttendance, &records); err != nil {
		return nil, fmt.Errorf("get attendance: %w", err)
	}
	return records, nil
}

func filterAttendance(records []domain.Attendance, keep func(domain.Attendance) bool) []domain.Attendance {
	out := make([]domain.Attendance, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func hasEmployee(employees []domain.Employee, id int) bool {
	for _, e := range employees {
		if e.ID == id {
			return true
		}
	}
	return false
}
