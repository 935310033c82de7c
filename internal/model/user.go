package model

import "time"

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the
// database. The json tags are omitted here because these structs
// are primarily used internally by the repository layer; handlers
// define separate response types with appropriate JSON tags.
//
// PasswordHash is empty for accounts created through an OAuth
// provider: those users never set a local password and sign in
// exclusively through the provider.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name shown on the front end.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password ("" for OAuth-only accounts).
//  IsVerified   – whether the email address has been confirmed.
//  LastLoginAt  – time of the most recent successful sign-in (nil if never).
//  LoginCount   – number of successful sign-ins.
//  LogoutAt     – time of the most recent sign-out (nil if never).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64     // users.id
	Name         string     // users.name
	Email        string     // users.email
	PasswordHash string     // users.password_hash (nullable in the schema)
	IsVerified   bool       // users.is_verified
	LastLoginAt  *time.Time // users.last_login_at (nullable)
	LoginCount   uint32     // users.login_count
	LogoutAt     *time.Time // users.logout_at (nullable)
	CreatedAt    time.Time  // users.created_at
	UpdatedAt    time.Time  // users.updated_at
}

// UserSession models an entry in the `user_sessions` table.  A row is
// opened on every successful sign-in (local or federated) and the most
// recent open row is closed when the user signs out.  The table records
// nothing beyond the login/logout pair.
//
// Fields:
//  ID       – primary key identifier.
//  UserID   – owner of the session.
//  LoginAt  – when the session started.
//  LogoutAt – when the user signed out (null while the session is open).
type UserSession struct {
	ID       uint64     // user_sessions.id
	UserID   uint64     // user_sessions.user_id
	LoginAt  time.Time  // user_sessions.login_at
	LogoutAt *time.Time // user_sessions.logout_at (nullable)
}
