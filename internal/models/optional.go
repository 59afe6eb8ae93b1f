package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Optional хранит значение поля JSON с учётом того, было ли поле передано.
// Set=false — поле отсутствовало, Set=true и Null=true — передан null.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Some возвращает Optional с переданным значением.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Null возвращает Optional, явно установленный в null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// HasValue — поле передано и не равно null.
func (o Optional[T]) HasValue() bool {
	return o.Set && !o.Null
}

// Ptr возвращает указатель на значение или nil для null и отсутствующего поля.
func (o Optional[T]) Ptr() *T {
	if !o.HasValue() {
		return nil
	}
	v := o.Value
	return &v
}

// UnmarshalJSON вызывается только для присутствующих в теле полей,
// в том числе для литерала null.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// Date принимает дату в формате 2006-01-02 или полный RFC 3339.
type Date struct {
	time.Time
}

var dateLayouts = []string{time.RFC3339Nano, time.DateOnly, "2006-01-02T15:04:05"}

// ParseDate разбирает строку в одном из поддерживаемых форматов.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t.UTC()}, nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q", s)
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time.Format(time.RFC3339))
}

// TimePtr возвращает время или nil для пустого указателя.
func (d *Date) TimePtr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
