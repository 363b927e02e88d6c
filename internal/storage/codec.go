package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"cashflow/internal/core"
)

// Wire format, one document per period:
//
//	{
//	    "parameters": {"init": ["JANVIER", 2024], "cash_id": 2},
//	    "cashflow": {"001": ["LOYER", -500], "002": ["SALAIRE", 1200]}
//	}
//
// "cash_id" holds the id counter; the key name is kept for compatibility with
// existing ledger files.

const indent = "    "

type wireRecord struct {
	Parameters *wireParameters `json:"parameters"`
	Cashflow   *wireEntries    `json:"cashflow"`
}

type wireParameters struct {
	Init   []json.RawMessage `json:"init"`
	CashID *json.Number      `json:"cash_id"`
}

// wireEntries decodes the "cashflow" object keeping key order.
type wireEntries struct {
	entries []core.Entry
}

// Encode serializes rec in the wire format, entries in insertion order.
func Encode(rec core.Record) ([]byte, error) {
	var buf bytes.Buffer

	month, err := json.Marshal(rec.Period.Month)
	if err != nil {
		return nil, fmt.Errorf("encode month: %w", err)
	}
	buf.WriteString(`{"parameters":{"init":[`)
	buf.Write(month)
	buf.WriteByte(',')
	buf.WriteString(strconv.Itoa(rec.Period.Year))
	buf.WriteString(`],"cash_id":`)
	buf.WriteString(strconv.Itoa(rec.NextID))
	buf.WriteString(`},"cashflow":{`)

	for i, e := range rec.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		id, err := json.Marshal(e.ID)
		if err != nil {
			return nil, fmt.Errorf("encode id: %w", err)
		}
		label, err := json.Marshal(e.Label)
		if err != nil {
			return nil, fmt.Errorf("encode label %s: %w", e.ID, err)
		}
		buf.Write(id)
		buf.WriteString(`:[`)
		buf.Write(label)
		buf.WriteByte(',')
		buf.WriteString(e.Amount.String())
		buf.WriteByte(']')
	}
	buf.WriteString(`}}`)

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", indent); err != nil {
		return nil, fmt.Errorf("indent record: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// Decode parses the wire format. Any shape problem is reported as ErrCorruptRecord.
func Decode(data []byte) (core.Record, error) {
	rec, err := decode(data)
	if err != nil {
		return core.Record{}, fmt.Errorf("%w: %v", core.ErrCorruptRecord, err)
	}
	return rec, nil
}

func decode(data []byte) (core.Record, error) {
	var w wireRecord
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&w); err != nil {
		return core.Record{}, err
	}
	if dec.More() {
		return core.Record{}, errors.New("trailing data after record")
	}
	if w.Parameters == nil {
		return core.Record{}, errors.New(`missing "parameters"`)
	}
	if w.Cashflow == nil {
		return core.Record{}, errors.New(`missing "cashflow"`)
	}

	period, err := decodeInit(w.Parameters.Init)
	if err != nil {
		return core.Record{}, err
	}
	if w.Parameters.CashID == nil {
		return core.Record{}, errors.New(`missing "cash_id"`)
	}
	nextID, err := strconv.Atoi(w.Parameters.CashID.String())
	if err != nil || nextID < 0 {
		return core.Record{}, fmt.Errorf(`"cash_id" %q is not a non-negative integer`, w.Parameters.CashID.String())
	}

	rec := core.Record{Period: period, NextID: nextID, Entries: w.Cashflow.entries}
	// A counter behind the stored ids would reissue them.
	for _, e := range rec.Entries {
		n, err := core.ParseID(e.ID)
		if err != nil {
			return core.Record{}, err
		}
		if n > rec.NextID {
			rec.NextID = n
		}
	}
	if err := rec.Validate(); err != nil {
		return core.Record{}, err
	}
	return rec, nil
}

func decodeInit(init []json.RawMessage) (core.Period, error) {
	if len(init) != 2 {
		return core.Period{}, fmt.Errorf(`"init" must hold [month, year], got %d values`, len(init))
	}
	var month string
	if err := json.Unmarshal(init[0], &month); err != nil {
		return core.Period{}, fmt.Errorf(`"init" month: %w`, err)
	}
	year, err := decodeYear(init[1])
	if err != nil {
		return core.Period{}, err
	}
	p := core.Period{Month: month, Year: year}
	if err := p.Validate(); err != nil {
		return core.Period{}, err
	}
	return p, nil
}

// decodeYear accepts an integer or a string of digits; older files stored the year as text.
func decodeYear(raw json.RawMessage) (int, error) {
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, fmt.Errorf(`"init" year: %w`, err)
	}
	switch t := v.(type) {
	case json.Number:
		n = t
	case string:
		n = json.Number(strings.TrimSpace(t))
	default:
		return 0, fmt.Errorf(`"init" year has type %T`, v)
	}
	year, err := strconv.Atoi(n.String())
	if err != nil {
		return 0, fmt.Errorf(`"init" year %q is not an integer`, n.String())
	}
	return year, nil
}

func (w *wireEntries) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf(`"cashflow" must be an object, got %v`, tok)
	}

	entries := []core.Entry{}
	seen := map[string]struct{}{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		id, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate identifier %q", id)
		}
		seen[id] = struct{}{}

		var pair []any
		if err := dec.Decode(&pair); err != nil {
			return fmt.Errorf("entry %s: %w", id, err)
		}
		e, err := decodeEntry(id, pair)
		if err != nil {
			return err
		}
		entries = append(entries, e)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	w.entries = entries
	return nil
}

func decodeEntry(id string, pair []any) (core.Entry, error) {
	if len(pair) != 2 {
		return core.Entry{}, fmt.Errorf("entry %s must hold [label, amount], got %d values", id, len(pair))
	}
	label, ok := pair[0].(string)
	if !ok {
		return core.Entry{}, fmt.Errorf("entry %s label has type %T", id, pair[0])
	}
	num, ok := pair[1].(json.Number)
	if !ok {
		return core.Entry{}, fmt.Errorf("entry %s amount has type %T", id, pair[1])
	}
	amount, err := decimal.NewFromString(num.String())
	if err != nil {
		return core.Entry{}, fmt.Errorf("entry %s amount: %w", id, err)
	}
	if err := core.ValidateAmount(amount); err != nil {
		return core.Entry{}, fmt.Errorf("entry %s: %v", id, err)
	}
	return core.Entry{ID: id, Label: label, Amount: amount}, nil
}
