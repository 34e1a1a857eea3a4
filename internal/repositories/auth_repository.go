package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"erp_backoffice/internal/models"
)

// AuthRepository defines the interface for user and capability-resolution
// database operations.
type AuthRepository interface {
	CreateUser(executor SQLExecutor, user *models.User, hashedPassword string) (int64, error)
	FindUserByUsername(username string) (*models.User, string, error) // Returns User, HashedPassword, Error
	FindUserByID(userID int64) (*models.User, error)
	AssignRole(executor SQLExecutor, userID, roleID int64) error

	// The three levels of session resolution. Each is an independent query so
	// a failure at one level can degrade to an empty set for that level only.
	GetActiveRolesForUser(userID int64) ([]models.Role, error)
	GetPermissionsForRoles(roleIDs []int64) ([]models.Permission, error)
	GetModulesForPermissions(permissionIDs []int64) ([]models.Module, error)
}

type authRepository struct {
	db *sql.DB
}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository(db *sql.DB) AuthRepository {
	return &authRepository{db: db}
}

// CreateUser inserts a new user into the database.
// It expects an SQLExecutor which can be a *sql.DB or *sql.Tx.
func (r *authRepository) CreateUser(executor SQLExecutor, user *models.User, hashedPassword string) (int64, error) {
	query := `INSERT INTO users (username, password_hash, email, full_name, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`

	currentTime := time.Now()

	var userID int64
	err := executor.QueryRow(
		query,
		user.Username,
		hashedPassword,
		user.Email,    // Can be nil
		user.FullName, // Can be nil
		true,
		currentTime,
		currentTime,
	).Scan(&userID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
		}
		return 0, fmt.Errorf("%w: creating user: %v", ErrDatabaseError, err)
	}
	return userID, nil
}

// FindUserByUsername retrieves a user by their username.
// It returns the user model, their hashed password, and an error if any.
func (r *authRepository) FindUserByUsername(username string) (*models.User, string, error) {
	user := &models.User{}
	var hashedPassword string
	query := `SELECT id, username, password_hash, email, full_name, is_active, created_at, updated_at
	          FROM users WHERE username = $1`

	err := r.db.QueryRow(query, username).Scan(
		&user.ID, &user.Username, &hashedPassword, &user.Email, &user.FullName,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("%w: finding user by username %s: %v", ErrDatabaseError, username, err)
	}
	return user, hashedPassword, nil
}

// FindUserByID retrieves a user by their ID.
func (r *authRepository) FindUserByID(userID int64) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, username, email, full_name, is_active, created_at, updated_at
	          FROM users WHERE id = $1`

	err := r.db.QueryRow(query, userID).Scan(
		&user.ID, &user.Username, &user.Email, &user.FullName,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding user by ID %d: %v", ErrDatabaseError, userID, err)
	}
	return user, nil
}

// AssignRole links a user to a role with an active assignment.
func (r *authRepository) AssignRole(executor SQLExecutor, userID, roleID int64) error {
	query := `INSERT INTO user_roles (user_id, role_id, is_active, created_at)
	          VALUES ($1, $2, TRUE, $3)
	          ON CONFLICT (user_id, role_id) DO UPDATE SET is_active = TRUE`
	if _, err := executor.Exec(query, userID, roleID, time.Now()); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: assigning role %d to user %d (constraint: %s)", ErrForeignKeyViolation, roleID, userID, pqErr.Constraint)
		}
		return fmt.Errorf("%w: assigning role %d to user %d: %v", ErrDatabaseError, roleID, userID, err)
	}
	return nil
}

// GetActiveRolesForUser returns the roles of a user whose assignment is active.
func (r *authRepository) GetActiveRolesForUser(userID int64) ([]models.Role, error) {
	query := `SELECT ro.id, ro.name, ro.description, ro.created_at, ro.updated_at
	          FROM roles ro
	          JOIN user_roles ur ON ur.role_id = ro.id
	          WHERE ur.user_id = $1 AND ur.is_active = TRUE
	          ORDER BY ro.name ASC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying roles for user %d: %v", ErrDatabaseError, userID, err)
	}
	defer rows.Close()

	roles := []models.Role{}
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning role: %v", ErrDatabaseError, err)
		}
		roles = append(roles, role)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating role rows: %v", ErrDatabaseError, err)
	}
	return roles, nil
}

// GetPermissionsForRoles returns the deduplicated permissions granted by the
// given roles.
func (r *authRepository) GetPermissionsForRoles(roleIDs []int64) ([]models.Permission, error) {
	if len(roleIDs) == 0 {
		return []models.Permission{}, nil
	}

	query := `SELECT DISTINCT p.id, p.code, p.description, p.created_at, p.updated_at
	          FROM permissions p
	          JOIN role_permissions rp ON rp.permission_id = p.id
	          WHERE rp.role_id = ANY($1)
	          ORDER BY p.code ASC`

	rows, err := r.db.Query(query, pq.Array(roleIDs))
	if err != nil {
		return nil, fmt.Errorf("%w: querying permissions for roles: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	perms := []models.Permission{}
	for rows.Next() {
		var p models.Permission
		if err := rows.Scan(&p.ID, &p.Code, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning permission: %v", ErrDatabaseError, err)
		}
		perms = append(perms, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating permission rows: %v", ErrDatabaseError, err)
	}
	return perms, nil
}

// GetModulesForPermissions returns the deduplicated active modules reachable
// through the given permissions, in sort order.
func (r *authRepository) GetModulesForPermissions(permissionIDs []int64) ([]models.Module, error) {
	if len(permissionIDs) == 0 {
		return []models.Module{}, nil
	}

	query := `SELECT DISTINCT m.id, m.name, m.path, m.sort_order, m.is_active, m.created_at
	          FROM modules m
	          JOIN permission_modules pm ON pm.module_id = m.id
	          WHERE pm.permission_id = ANY($1) AND m.is_active = TRUE
	          ORDER BY m.sort_order ASC, m.name ASC`

	rows, err := r.db.Query(query, pq.Array(permissionIDs))
	if err != nil {
		return nil, fmt.Errorf("%w: querying modules for permissions: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	modules := []models.Module{}
	for rows.Next() {
		var m models.Module
		if err := rows.Scan(&m.ID, &m.Name, &m.Path, &m.SortOrder, &m.IsActive, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning module: %v", ErrDatabaseError, err)
		}
		modules = append(modules, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating module rows: %v", ErrDatabaseError, err)
	}
	return modules, nil
}
