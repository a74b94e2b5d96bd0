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

package lock

import (
	"context"
	"fmt"
	"hash/fnv" // For hashing string keys to integers
	"sync"

	"github.com/dealdocs/agent-contact-import/internal/system/database/client"
	"github.com/dealdocs/agent-contact-import/internal/system/database/provider"
	"github.com/dealdocs/agent-contact-import/internal/system/errors"
	"github.com/dealdocs/agent-contact-import/internal/system/log"
)

type DistributedLock interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(key string) error
}

// PostgresLock implements DistributedLock using PostgreSQL session advisory locks.
// The connection that took a lock is kept until Release, since closing it drops the lock.
type PostgresLock struct {
	mu   sync.Mutex
	held map[string]heldLock
}

type heldLock struct {
	lockID int64
	pool   client.DBClientInterface
	conn   client.DBClientInterface
}

func NewPostgresLock() *PostgresLock {
	return &PostgresLock{held: make(map[string]heldLock)}
}

// PostgreSQL advisory locks use bigint or two integers. We'll use a single bigint.
func (l *PostgresLock) generateLockKey(key string) (int64, error) {

	logger := log.GetLogger()
	h := fnv.New64a() // FNV-1a is a good general-purpose non-cryptographic hash
	_, err := h.Write([]byte(key))
	if err != nil {
		errorMsg := fmt.Sprintf("failed to hash lock key '%s'", key)
		logger.Debug(errorMsg, log.Error(err))
		serverError := errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_KEY_GEN.Code,
			Message:     errors.LOCK_KEY_GEN.Message,
			Description: errorMsg,
		}, err)
		return 0, serverError
	}
	return int64(h.Sum64()), nil // Cast to int64 for pg_advisory_lock
}

// Acquire tries to take the lock without waiting. It returns false when another session holds it.
func (l *PostgresLock) Acquire(ctx context.Context, key string) (bool, error) {

	logger := log.GetLogger()
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return true, nil
	}

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		errorMsg := "Failed during DB client creation for advisory lock acquiring."
		logger.Error(errorMsg, log.Error(err))
		serverError := errors.NewServerError(errors.ErrorMessage{
			Code:        errors.DB_CLIENT_INIT.Code,
			Message:     errors.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
		return false, serverError
	}
	lockID, err := l.generateLockKey(key)
	if err != nil {
		_ = dbClient.Close()
		return false, err
	}
	logger.Debug(fmt.Sprintf("Generated lock Id: %d", lockID))

	conn, err := dbClient.Pin(ctx)
	if err != nil {
		_ = dbClient.Close()
		errorMsg := "Failed to reserve a connection for the advisory lock."
		logger.Error(errorMsg, log.Error(err))
		return false, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.DB_CLIENT_INIT.Code,
			Message:     errors.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}

	results, err := conn.ExecuteQuery("SELECT pg_try_advisory_lock($1)", lockID)
	if err != nil {
		_ = conn.Close()
		_ = dbClient.Close()
		errorMsg := "Failed to execute pg_try_advisory_lock"
		logger.Error(errorMsg, log.Error(err))
		return false, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_ACQUIRE.Code,
			Message:     errors.LOCK_ACQUIRE.Message,
			Description: errorMsg,
		}, err)
	}

	acquired, ok := firstBool(results, "pg_try_advisory_lock")
	if !ok {
		_ = conn.Close()
		_ = dbClient.Close()
		errorMsg := fmt.Sprintf("pg_try_advisory_lock returned no results or invalid field for "+
			"lock Id %d", lockID)
		logger.Error(errorMsg)
		return false, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_RESULT_INVALID.Code,
			Message:     errors.LOCK_RESULT_INVALID.Message,
			Description: errorMsg,
		}, nil)
	}

	if !acquired {
		_ = conn.Close()
		_ = dbClient.Close()
		return false, nil
	}

	l.held[key] = heldLock{lockID: lockID, pool: dbClient, conn: conn}
	logger.Debug(fmt.Sprintf("Advisory lock acquired for key: %s", key))
	return true, nil
}

// Release drops a lock taken by Acquire and returns its connection.
func (l *PostgresLock) Release(key string) error {

	logger := log.GetLogger()
	l.mu.Lock()
	held, ok := l.held[key]
	delete(l.held, key)
	l.mu.Unlock()
	if !ok {
		return nil
	}
	defer held.pool.Close()
	defer held.conn.Close()

	results, err := held.conn.ExecuteQuery("SELECT pg_advisory_unlock($1)", held.lockID)
	released, _ := firstBool(results, "pg_advisory_unlock")
	if err != nil || !released {
		errorMsg := "pg_advisory_unlock failed"
		logger.Error(errorMsg, log.Error(err))
		serverError := errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_RELEASE.Code,
			Message:     errors.LOCK_RELEASE.Message,
			Description: errorMsg,
		}, err)
		return serverError
	}
	logger.Debug(fmt.Sprintf("Advisory lock released for lock id: %d", held.lockID))
	return nil
}

func firstBool(results []map[string]interface{}, column string) (bool, bool) {
	if len(results) == 0 {
		return false, false
	}
	value, ok := results[0][column].(bool)
	return value, ok
}
