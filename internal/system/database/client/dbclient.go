/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package client

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/dealdocs/agent-contact-import/internal/system/log"

	_ "github.com/lib/pq"
)

// DBClientInterface defines the interface for database operations.
type DBClientInterface interface {
	ExecuteQuery(query string, args ...interface{}) ([]map[string]interface{}, error)
	Execute(query string, args ...interface{}) (int64, error)
	Pin(ctx context.Context) (DBClientInterface, error)
	Close() error
	InitDatabase(file string) error
}

// executor is satisfied by both *sql.DB and *sql.Conn.
type executor interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// DBClient is the implementation of DBClientInterface.
type DBClient struct {
	db     *sql.DB
	exec   executor
	closer func() error
}

// NewDBClient creates a new instance of DBClient that owns the provided database connection.
func NewDBClient(db *sql.DB) DBClientInterface {

	return &DBClient{
		db:     db,
		exec:   db,
		closer: db.Close,
	}
}

// NewSharedDBClient wraps a connection pool owned by someone else. Close is a no-op.
func NewSharedDBClient(db *sql.DB) DBClientInterface {

	return &DBClient{
		db:     db,
		exec:   db,
		closer: func() error { return nil },
	}
}

// InitDatabase runs the schema script at the given path.
func (client *DBClient) InitDatabase(file string) error {

	sqlBytes, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	_, err = client.exec.ExecContext(context.Background(), string(sqlBytes))
	if err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	log.GetLogger().Info("Database schema created successfully")
	return nil
}

// ExecuteQuery executes a SELECT query and returns the result as a slice of maps.
func (client *DBClient) ExecuteQuery(query string, args ...interface{}) ([]map[string]interface{}, error) {

	rows, err := client.exec.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []map[string]interface{}
	for rows.Next() {
		row := make([]interface{}, len(columns))
		rowPointers := make([]interface{}, len(columns))
		for i := range row {
			rowPointers[i] = &row[i]
		}

		if err := rows.Scan(rowPointers...); err != nil {
			return nil, err
		}

		result := map[string]interface{}{}
		for i, col := range columns {
			// Normalize column names to lowercase for consistency.
			result[strings.ToLower(col)] = row[i]
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

// Execute runs a statement that returns no rows and reports the affected row count.
func (client *DBClient) Execute(query string, args ...interface{}) (int64, error) {

	res, err := client.exec.ExecContext(context.Background(), query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Pin returns a client bound to a single connection from the pool. Session scoped
// state such as advisory locks stays on that connection until the pinned client is closed.
func (client *DBClient) Pin(ctx context.Context) (DBClientInterface, error) {

	conn, err := client.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return &DBClient{
		db:     client.db,
		exec:   conn,
		closer: conn.Close,
	}, nil
}

// Close closes the database connection.
func (client *DBClient) Close() error {
	if _, pinned := client.exec.(*sql.Conn); !pinned && os.Getenv("TEST_MODE") == "true" {
		return nil
	}
	return client.closer()
}
