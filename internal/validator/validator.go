package validator

import (
	"context"
	"reflect"
	"strings"

	v10validator "github.com/go-playground/validator/v10"
)

type Validator struct {
	engine Engine
}

type Engine interface {
	StructCtx(ctx context.Context, s any) error
	VarCtx(ctx context.Context, field any, tag string) error
}

func New(e Engine) *Validator {
	return &Validator{engine: e}
}

func (v *Validator) Struct(ctx context.Context, s any) error {
	return v.engine.StructCtx(ctx, s)
}

func (v *Validator) Var(ctx context.Context, field any, tag string) error {
	return v.engine.VarCtx(ctx, field, tag)
}

// NotBlank проверяет, что строка содержит хотя бы один непробельный символ.
// Правило required пропускает строки из одних пробелов, поэтому для названия
// товара используется отдельная проверка.
func NotBlank(fl v10validator.FieldLevel) bool {
	val := fl.Field()
	if val.Kind() != reflect.String {
		return false
	}

	return len(strings.TrimSpace(val.String())) > 0
}
