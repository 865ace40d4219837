package keeper

import (
	"encoding/json"

	collcodec "cosmossdk.io/collections/codec"

	"rewardchain/x/rewards/types"
)

var (
	_ collcodec.ValueCodec[types.Params]       = jsonValueCodec[types.Params]{}
	_ collcodec.ValueCodec[types.Group]        = jsonValueCodec[types.Group]{}
	_ collcodec.ValueCodec[types.Currency]     = jsonValueCodec[types.Currency]{}
	_ collcodec.ValueCodec[types.Position]     = jsonValueCodec[types.Position]{}
	_ collcodec.ValueCodec[types.RewardTotals] = jsonValueCodec[types.RewardTotals]{}
)

// jsonValueCodec stores plain module structs as JSON.
type jsonValueCodec[T any] struct {
	name string
}

func newJSONValueCodec[T any](name string) jsonValueCodec[T] {
	return jsonValueCodec[T]{name: types.ModuleName + "/" + name}
}

func (jsonValueCodec[T]) Encode(value T) ([]byte, error) { return json.Marshal(value) }
func (jsonValueCodec[T]) Decode(bz []byte) (T, error) {
	var v T
	return v, json.Unmarshal(bz, &v)
}
func (c jsonValueCodec[T]) EncodeJSON(value T) ([]byte, error) { return c.Encode(value) }
func (c jsonValueCodec[T]) DecodeJSON(bz []byte) (T, error)    { return c.Decode(bz) }
func (jsonValueCodec[T]) Stringify(value T) string {
	bz, err := json.Marshal(value)
	if err != nil {
		return err.Error()
	}
	return string(bz)
}
func (c jsonValueCodec[T]) ValueType() string { return c.name }
