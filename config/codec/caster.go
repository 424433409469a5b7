// Copyright 2025 The Rivaas Authors
// Copyright 2025 Company.info B.V.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package codec

import (
	"fmt"

	"github.com/spf13/cast"
)

// CastType names the target type of a [CasterCodec].
type CastType string

// revive:disable:exported
const (
	CastTypeBool     CastType = "bool"
	CastTypeDuration CastType = "duration"
	CastTypeFloat64  CastType = "float64"
	CastTypeInt      CastType = "int"
	CastTypeInt64    CastType = "int64"
	CastTypeUint     CastType = "uint"
	CastTypeUint64   CastType = "uint64"
	CastTypeString   CastType = "string"
	CastTypeTime     CastType = "time"

	TypeCasterBool     Type = "caster-bool"
	TypeCasterDuration Type = "caster-duration"
	TypeCasterFloat64  Type = "caster-float64"
	TypeCasterInt      Type = "caster-int"
	TypeCasterInt64    Type = "caster-int64"
	TypeCasterUint     Type = "caster-uint"
	TypeCasterUint64   Type = "caster-uint64"
	TypeCasterString   Type = "caster-string"
	TypeCasterTime     Type = "caster-time"
)

// revive:enable:exported

var casts = map[CastType]func(any) (any, error){
	CastTypeBool:     func(v any) (any, error) { return cast.ToBoolE(v) },
	CastTypeDuration: func(v any) (any, error) { return cast.ToDurationE(v) },
	CastTypeFloat64:  func(v any) (any, error) { return cast.ToFloat64E(v) },
	CastTypeInt:      func(v any) (any, error) { return cast.ToIntE(v) },
	CastTypeInt64:    func(v any) (any, error) { return cast.ToInt64E(v) },
	CastTypeUint:     func(v any) (any, error) { return cast.ToUintE(v) },
	CastTypeUint64:   func(v any) (any, error) { return cast.ToUint64E(v) },
	CastTypeString:   func(v any) (any, error) { return cast.ToStringE(v) },
	CastTypeTime:     func(v any) (any, error) { return cast.ToTimeE(v) },
}

var casterTypes = map[Type]CastType{
	TypeCasterBool:     CastTypeBool,
	TypeCasterDuration: CastTypeDuration,
	TypeCasterFloat64:  CastTypeFloat64,
	TypeCasterInt:      CastTypeInt,
	TypeCasterInt64:    CastTypeInt64,
	TypeCasterUint:     CastTypeUint,
	TypeCasterUint64:   CastTypeUint64,
	TypeCasterString:   CastTypeString,
	TypeCasterTime:     CastTypeTime,
}

func init() {
	for t, ct := range casterTypes {
		RegisterDecoder(t, NewCaster(ct))
	}
}

// CasterCodec decodes a single scalar value, for example the raw bytes of
// one Consul key, into a typed Go value.
type CasterCodec struct {
	castType CastType
}

// NewCaster returns a caster for castType.
func NewCaster(castType CastType) *CasterCodec {
	return &CasterCodec{castType: castType}
}

// CastType returns the target type of the caster.
func (c *CasterCodec) CastType() CastType {
	return c.castType
}

// Decode casts data to the caster's type and stores it in v, which must be
// a *any.
func (c *CasterCodec) Decode(data []byte, v any) error {
	ptr, ok := v.(*any)
	if !ok {
		return fmt.Errorf("CasterCodec.Decode: expected *any, got %T", v)
	}

	fn, ok := casts[c.castType]
	if !ok {
		return fmt.Errorf("unsupported cast type %q", c.castType)
	}

	out, err := fn(string(data))
	if err != nil {
		return err
	}
	*ptr = out

	return nil
}
