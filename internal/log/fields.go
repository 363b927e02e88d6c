package log

import (
	"sort"

	"cashflow/internal/core"
)

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldSuccess   = "success"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldYear      = "year"
	FieldMonth     = "month"
	FieldLocation  = "location"
	FieldEntryID   = "entry_id"
	FieldLabel     = "label"
	FieldAmount    = "amount"
	FieldNextID    = "next_id"
	FieldEntries   = "entries"
	FieldEventID   = "event_id"
	FieldBackend   = "backend"
	FieldSink      = "sink"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentCLI     = "cli"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpOpen     = "open"
	OpAdd      = "add"
	OpRemove   = "remove"
	OpMirror   = "mirror"
	OpValidate = "validate"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithPeriod adds month and year fields
func (f LogFields) WithPeriod(p core.Period) LogFields {
	f[FieldMonth] = p.Month
	f[FieldYear] = p.Year
	return f
}

// WithEntry adds entry fields
func (f LogFields) WithEntry(e core.Entry) LogFields {
	f[FieldEntryID] = e.ID
	f[FieldLabel] = e.Label
	f[FieldAmount] = e.Amount.String()
	return f
}

// WithLocation adds the storage location field
func (f LogFields) WithLocation(location string) LogFields {
	f[FieldLocation] = location
	return f
}

// ToSlice converts LogFields to a slice for slog, keys sorted.
func (f LogFields) ToSlice() []any {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	slice := make([]any, 0, len(f)*2)
	for _, k := range keys {
		slice = append(slice, k, f[k])
	}
	return slice
}
