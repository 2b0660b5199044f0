package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"terracred/config"
	"terracred/hedera"
	"terracred/middleware"
	"terracred/utils"

	"github.com/spf13/cobra"
)

var timeout time.Duration

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lendctl",
		Short:         "Operate the TerraCRED lending pool with the operator key",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadConfig()
			utils.InitLogger(config.AppConfig.LogLevel)
		},
	}
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall deadline for the command")

	rootCmd.AddCommand(
		depositCmd(),
		amountCmd("borrow", "Borrow heNGN against deposited collateral", (*hedera.LendingPool).Borrow),
		amountCmd("repay", "Approve heNGN and repay debt", (*hedera.LendingPool).Repay),
		amountCmd("extend", "Approve the extension interest in heNGN and extend the due date", (*hedera.LendingPool).ExtendLoan),
		amountCmd("withdraw", "Withdraw collateral", (*hedera.LendingPool).WithdrawCollateral),
		withdrawFeesCmd(),
		addTokenCmd(),
		loanCmd(),
		balanceCmd(),
		adminTokenCmd(),
	)
	return rootCmd
}

// withPool connects to the relay and runs fn with a deadline
func withPool(cmd *cobra.Command, requireSigner bool, fn func(ctx context.Context, pool *hedera.LendingPool) (any, error)) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	pool, closeFn, err := hedera.Connect(ctx, config.AppConfig, utils.Logger, requireSigner)
	if err != nil {
		return err
	}
	defer closeFn()
	defer utils.SyncLogger()

	out, err := fn(ctx, pool)
	if err != nil {
		return err
	}
	return printJSON(cmd, out)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func depositCmd() *cobra.Command {
	var token, amount, propertyID, value string
	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Approve and deposit RWA collateral for a property",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				token = config.AppConfig.MasterRWATokenID
			}
			return withPool(cmd, true, func(ctx context.Context, pool *hedera.LendingPool) (any, error) {
				return pool.DepositCollateral(ctx, token, amount, propertyID, value)
			})
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "collateral token (0.0.x or 0x address), defaults to MASTER_RWA_TOKEN_ID")
	cmd.Flags().StringVar(&amount, "amount", "", "collateral amount in token units")
	cmd.Flags().StringVar(&propertyID, "property", "", "property id, e.g. PROP001")
	cmd.Flags().StringVar(&value, "value", "", "property value")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("property")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

func amountCmd(use, short string, op func(*hedera.LendingPool, context.Context, string) (*hedera.TxResult, error)) *cobra.Command {
	var amount string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd, true, func(ctx context.Context, pool *hedera.LendingPool) (any, error) {
				return op(pool, ctx, amount)
			})
		},
	}
	cmd.Flags().StringVar(&amount, "amount", "", "amount in the token's smallest unit")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func withdrawFeesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw-fees",
		Short: "Withdraw accumulated protocol fees (pool owner only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd, true, func(ctx context.Context, pool *hedera.LendingPool) (any, error) {
				return pool.WithdrawFees(ctx)
			})
		},
	}
}

func addTokenCmd() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "add-token",
		Short: "Whitelist a collateral token (pool owner only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd, true, func(ctx context.Context, pool *hedera.LendingPool) (any, error) {
				return pool.AddSupportedToken(ctx, token)
			})
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "token id or address")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}

func loanCmd() *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "loan <account>",
		Short: "Show a borrower's loan position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd, false, func(ctx context.Context, pool *hedera.LendingPool) (any, error) {
				addr, err := pool.Resolve(ctx, args[0])
				if err != nil {
					return nil, err
				}
				details, err := pool.GetLoanDetails(ctx, addr)
				if err != nil {
					return nil, err
				}
				if !full {
					return details, nil
				}
				loan, err := pool.GetLoan(ctx, addr)
				if err != nil {
					return nil, err
				}
				return map[string]any{"address": addr.Hex(), "details": details, "loan": loan}, nil
			})
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "also read the raw loans() struct")
	return cmd
}

func balanceCmd() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "balance <account>",
		Short: "Show an account's ERC20 balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				token = config.AppConfig.HENGNTokenAddress
			}
			return withPool(cmd, false, func(ctx context.Context, pool *hedera.LendingPool) (any, error) {
				tokenAddr, err := hedera.ResolveAddress(token)
				if err != nil {
					return nil, fmt.Errorf("token: %w", err)
				}
				account, err := pool.Resolve(ctx, args[0])
				if err != nil {
					return nil, err
				}
				bal, err := pool.TokenBalance(ctx, account, tokenAddr)
				if err != nil {
					return nil, err
				}
				return map[string]string{"account": args[0], "token": tokenAddr.Hex(), "balance": bal.String()}, nil
			})
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "token id or address, defaults to HENGN_TOKEN_ADDRESS")
	return cmd
}

func adminTokenCmd() *cobra.Command {
	var account string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "admin-token",
		Short: "Issue a JWT for the admin routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if account == "" {
				account = config.AppConfig.AdminAccountID
			}
			token, err := middleware.GenerateJWT(account, middleware.RoleAdmin, ttl)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{
				"accountId": account,
				"token":     token,
				"expiresAt": time.Now().Add(ttl).UTC().Format(time.RFC3339),
			})
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "admin account id, defaults to ADMIN_ACCOUNT_ID")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
