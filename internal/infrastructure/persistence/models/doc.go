// Package models contains GORM persistence models that map to database tables.
// Domain entities stay free of GORM tags; each model converts to and from its
// entity with ToDomain and a FromDomain function.
//
// Column types are portable between PostgreSQL and SQLite so repository tests
// can run against an in-memory database with AutoMigrate. The authoritative
// schema lives in the SQL migrations.
package models
