// ShelterAI - Refugee Shelter Matching and Recommendation
// Copyright 2026 Etxarri
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Etxarri/ShelterAI

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // postgres driver
	"github.com/rs/zerolog"

	"github.com/Etxarri/ShelterAI/internal/recommend"
)

// Options tunes the connection pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DB is the Postgres-backed shelter store.
type DB struct {
	conn   *sql.DB
	logger zerolog.Logger
}

// Open creates the connection pool. sql.Open does not dial; use Ping
// to verify connectivity. The service can start degraded with an
// unreachable database, so callers decide how to treat Ping failures.
func Open(dsn string, opts Options, logger zerolog.Logger) (*DB, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if opts.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	return &DB{
		conn:   conn,
		logger: logger.With().Str("component", "database").Logger(),
	}, nil
}

// Ping verifies database connectivity.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

const shelterColumns = `id, name, address, max_capacity, current_occupancy,
	has_medical_facilities, has_childcare, has_disability_access,
	languages_spoken, shelter_type, services_offered`

// AvailableShelters returns shelters with free space, ordered by id so
// candidate sets are stable across calls.
func (db *DB) AvailableShelters(ctx context.Context) ([]recommend.Shelter, error) {
	query := `SELECT ` + shelterColumns + `
		FROM shelters
		WHERE current_occupancy < max_capacity
		ORDER BY id`

	return db.queryShelters(ctx, query)
}

// AllShelters returns every shelter regardless of occupancy.
func (db *DB) AllShelters(ctx context.Context) ([]recommend.Shelter, error) {
	query := `SELECT ` + shelterColumns + `
		FROM shelters
		ORDER BY id`

	return db.queryShelters(ctx, query)
}

func (db *DB) queryShelters(ctx context.Context, query string) ([]recommend.Shelter, error) {
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query shelters: %w", err)
	}
	defer rows.Close()

	var shelters []recommend.Shelter
	for rows.Next() {
		s, err := scanShelter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shelter: %w", err)
		}
		shelters = append(shelters, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shelters: %w", err)
	}

	return shelters, nil
}

// scanShelter maps one row onto a Shelter, folding nullable text
// columns to empty strings.
func scanShelter(rows *sql.Rows) (recommend.Shelter, error) {
	var (
		s         recommend.Shelter
		address   sql.NullString
		languages sql.NullString
		stype     sql.NullString
		services  sql.NullString
		medical   sql.NullBool
		childcare sql.NullBool
		access    sql.NullBool
	)

	if err := rows.Scan(
		&s.ID,
		&s.Name,
		&address,
		&s.MaxCapacity,
		&s.CurrentOccupancy,
		&medical,
		&childcare,
		&access,
		&languages,
		&stype,
		&services,
	); err != nil {
		return recommend.Shelter{}, err
	}

	s.Address = address.String
	s.LanguagesSpoken = languages.String
	s.ShelterType = stype.String
	s.ServicesOffered = services.String
	s.HasMedicalFacilities = medical.Bool
	s.HasChildcare = childcare.Bool
	s.HasDisabilityAccess = access.Bool

	return s, nil
}
