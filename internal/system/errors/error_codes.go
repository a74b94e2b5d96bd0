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

package errors

const errorPrefix = "AGI-"

var (
	// Server error codes

	READ_INPUT_FILE = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Error while reading the input file.",
	}

	WRITE_OUTPUT_FILE = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Error while writing the output file.",
	}

	READ_INPUT_FOLDER = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Error while listing the input folder.",
	}

	STORE_CLIENT_INIT = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Unable to initialize the key-value store client.",
	}

	DB_CLIENT_INIT = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Unable to initialize database client.",
	}

	EXECUTE_QUERY = ErrorMessage{
		Code:    errorPrefix + "15006",
		Message: "Error while executing the database query.",
	}

	LOCK_ACQUIRE = ErrorMessage{
		Code:    errorPrefix + "15007",
		Message: "Advisory lock acquisition failed",
	}

	LOCK_RELEASE = ErrorMessage{
		Code:    errorPrefix + "15008",
		Message: "Error while releasing the lock.",
	}

	LOCK_KEY_GEN = ErrorMessage{
		Code:    errorPrefix + "15009",
		Message: "Error generating advisory lock key",
	}

	LOCK_RESULT_INVALID = ErrorMessage{
		Code:    errorPrefix + "15010",
		Message: "Invalid response from advisory lock query.",
	}

	MARSHAL_JSON = ErrorMessage{
		Code:    errorPrefix + "15011",
		Message: "Error while marshalling JSON.",
	}

	MARSHAL_ITEM = ErrorMessage{
		Code:    errorPrefix + "15012",
		Message: "Error while converting a record to a store item.",
	}

	CONFIG_LOAD = ErrorMessage{
		Code:    errorPrefix + "15013",
		Message: "Error while loading the configuration.",
	}

	METRICS_PUSH = ErrorMessage{
		Code:    errorPrefix + "15014",
		Message: "Error while pushing metrics.",
	}

	// Client error codes
	INVALID_ARGUMENTS = ErrorMessage{
		Code:    errorPrefix + "11001",
		Message: "Invalid command arguments.",
	}

	UNKNOWN_SOURCE = ErrorMessage{
		Code:    errorPrefix + "11002",
		Message: "Unknown source.",
	}

	EMPTY_INPUT = ErrorMessage{
		Code:        errorPrefix + "11003",
		Message:     "Input has no data.",
		Description: "The input contains no header row or no data rows.",
	}

	NO_INPUT_FILES = ErrorMessage{
		Code:    errorPrefix + "11004",
		Message: "No supported input files found.",
	}

	INVALID_RECORD = ErrorMessage{
		Code:    errorPrefix + "11005",
		Message: "Record cannot be written.",
	}

	INVALID_CONFIG = ErrorMessage{
		Code:    errorPrefix + "11006",
		Message: "Configuration validation failed.",
	}

	IMPORT_IN_PROGRESS = ErrorMessage{
		Code:        errorPrefix + "11007",
		Message:     "Import already running.",
		Description: "Another import into the same table holds the lock.",
	}

	UNSUPPORTED_FILE = ErrorMessage{
		Code:    errorPrefix + "11008",
		Message: "Unsupported file type.",
	}
)
