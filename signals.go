package parley

import (
	"context"
	"strings"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for codec events.
var (
	SignalRegistryCreated = capitan.NewSignal("codec.registry.created", "Registry built with enabled formats")
	SignalBindingCreated  = capitan.NewSignal("codec.binding.created", "Binding instantiated")
	SignalExtractStart    = capitan.NewSignal("codec.extract.start", "Extract operation beginning")
	SignalExtractComplete = capitan.NewSignal("codec.extract.complete", "Extract operation finished")
	SignalNegotiated      = capitan.NewSignal("codec.negotiate", "Response format selected")
	SignalRespondStart    = capitan.NewSignal("codec.respond.start", "Respond operation beginning")
	SignalRespondComplete = capitan.NewSignal("codec.respond.complete", "Respond operation finished")
)

// Keys for typed event data.
var (
	KeyFormats        = capitan.NewStringKey("formats")
	KeyFormat         = capitan.NewStringKey("format")
	KeyContentType    = capitan.NewStringKey("content_type")
	KeyAccept         = capitan.NewStringKey("accept")
	KeyTier           = capitan.NewStringKey("tier")
	KeyTypeName       = capitan.NewStringKey("type_name")
	KeyErrorCode      = capitan.NewStringKey("error_code")
	KeySize           = capitan.NewIntKey("size")
	KeyRuleCount      = capitan.NewIntKey("rule_count")
	KeyViolationCount = capitan.NewIntKey("violation_count")
	KeyDuration       = capitan.NewDurationKey("duration")
	KeyError          = capitan.NewErrorKey("error")
)

// emitRegistryCreated emits an event when a registry is built.
func emitRegistryCreated(ctx context.Context, accepted []string) {
	capitan.Emit(ctx, SignalRegistryCreated,
		KeyFormats.Field(strings.Join(accepted, ",")),
	)
}

// emitBindingCreated emits an event when a binding is created.
func emitBindingCreated(ctx context.Context, typeName string, rules int) {
	capitan.Emit(ctx, SignalBindingCreated,
		KeyTypeName.Field(typeName),
		KeyRuleCount.Field(rules),
	)
}

// emitExtractStart emits an event when extract begins.
func emitExtractStart(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalExtractStart,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

// emitExtractComplete emits an event when extract finishes.
func emitExtractComplete(ctx context.Context, contentType, typeName string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, errorFields(err)...)
		capitan.Error(ctx, SignalExtractComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalExtractComplete, fields...)
	}
}

// emitNegotiated emits an event when a response format is chosen.
func emitNegotiated(ctx context.Context, accept, contentType string, f Format, tier Tier) {
	capitan.Emit(ctx, SignalNegotiated,
		KeyAccept.Field(accept),
		KeyContentType.Field(contentType),
		KeyFormat.Field(f.String()),
		KeyTier.Field(tier.String()),
	)
}

// emitRespondStart emits an event when respond begins.
func emitRespondStart(ctx context.Context, typeName string, f Format) {
	capitan.Emit(ctx, SignalRespondStart,
		KeyTypeName.Field(typeName),
		KeyFormat.Field(f.String()),
	)
}

// emitRespondComplete emits an event when respond finishes.
func emitRespondComplete(ctx context.Context, typeName string, f Format, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeyFormat.Field(f.String()),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, errorFields(err)...)
		capitan.Error(ctx, SignalRespondComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalRespondComplete, fields...)
	}
}

func errorFields(err error) []capitan.Field {
	fields := []capitan.Field{KeyError.Field(err)}
	if ce, ok := AsCodecError(err); ok {
		fields = append(fields, KeyErrorCode.Field(ce.Kind.Code()))
		if ce.Kind == KindValidation {
			fields = append(fields, KeyViolationCount.Field(len(ce.Violations)))
		}
	}
	return fields
}
