package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"cosmossdk.io/collections"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"rewardchain/x/rewards/types"
)

func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the rewards module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		getParamsCmd(),
		getGroupCmd(),
		getCurrencyCmd(),
		getPositionCmd(),
		getEpochCmd(),
		getTotalsCmd(),
	)
	return cmd
}

func groupKey(id uint32) ([]byte, error) {
	return collections.EncodeKeyWithPrefix(types.GroupKeyPrefix.Bytes(), collections.Uint32Key, id)
}

func currencyKey(id string) ([]byte, error) {
	return collections.EncodeKeyWithPrefix(types.CurrencyKeyPrefix.Bytes(), collections.StringKey, id)
}

func positionKey(account, currency string) ([]byte, error) {
	kc := collections.PairKeyCodec(collections.StringKey, collections.StringKey)
	return collections.EncodeKeyWithPrefix(types.PositionKeyPrefix.Bytes(), kc, collections.Join(account, currency))
}

// printStored prints the JSON value stored under key, or fallback when the key
// is unset.
func printStored(clientCtx client.Context, key []byte, fallback any) error {
	bz, _, err := clientCtx.QueryStore(key, types.StoreKey)
	if err != nil {
		return err
	}
	if len(bz) == 0 {
		if fallback == nil {
			return fmt.Errorf("not found")
		}
		out, err := json.Marshal(fallback)
		if err != nil {
			return err
		}
		return clientCtx.PrintString(string(out) + "\n")
	}
	// Stored as JSON (collections codec).
	return clientCtx.PrintString(string(bz) + "\n")
}

func simpleQueryCmd(use, short string, args cobra.PositionalArgs, key func(args []string) ([]byte, any, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}
			k, fallback, err := key(args)
			if err != nil {
				return err
			}
			return printStored(clientCtx, k, fallback)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

func getParamsCmd() *cobra.Command {
	return simpleQueryCmd("params", "Shows the parameters of the module", cobra.NoArgs,
		func([]string) ([]byte, any, error) {
			return types.ParamsKey.Bytes(), types.DefaultParams(), nil
		})
}

func getGroupCmd() *cobra.Command {
	return simpleQueryCmd("group [group-id]", "Shows a reward group", cobra.ExactArgs(1),
		func(args []string) ([]byte, any, error) {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid group id %q: %w", args[0], err)
			}
			key, err := groupKey(uint32(id))
			return key, nil, err
		})
}

func getCurrencyCmd() *cobra.Command {
	return simpleQueryCmd("currency [currency]", "Shows a currency and the group it is attached to", cobra.ExactArgs(1),
		func(args []string) ([]byte, any, error) {
			key, err := currencyKey(args[0])
			return key, nil, err
		})
}

func getPositionCmd() *cobra.Command {
	return simpleQueryCmd("position [address] [currency]", "Shows the stake position of an account", cobra.ExactArgs(2),
		func(args []string) ([]byte, any, error) {
			if _, err := sdk.AccAddressFromBech32(args[0]); err != nil {
				return nil, nil, err
			}
			key, err := positionKey(args[0], args[1])
			return key, nil, err
		})
}

func getEpochCmd() *cobra.Command {
	return simpleQueryCmd("epoch", "Shows the epoch in progress", cobra.NoArgs,
		func([]string) ([]byte, any, error) {
			return types.EpochStateKey.Bytes(), nil, nil
		})
}

func getTotalsCmd() *cobra.Command {
	return simpleQueryCmd("totals", "Shows credited, claimed and undistributed reward", cobra.NoArgs,
		func([]string) ([]byte, any, error) {
			return types.TotalsKey.Bytes(), types.NewRewardTotals(), nil
		})
}
