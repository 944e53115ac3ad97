package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gabapcia/catapultcli/internal/account"
	"github.com/gabapcia/catapultcli/internal/pkg/catapult"
	"github.com/gabapcia/catapultcli/internal/txbuilder"

	"github.com/urfave/cli/v3"
)

const (
	defaultSigner            = "tester1"
	defaultRestrictionSigner = "tester4"
	defaultRecipient         = "tester2"

	defaultNamespaceDuration = 1000
	defaultMosaicDuration    = 100_000
	defaultSupplyDelta       = 290_888_000
	defaultTransferAmount    = 10
	defaultTransferMessage   = "Testing transfer with fee"
)

// registerNamespaceCommand registers a root namespace, or a child one with
// --parent.
//
// Usage example:
//
//	catapultcli register-namespace -n foo --duration 1000
func registerNamespaceCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "register-namespace",
		Usage: "Register a root namespace, or a child namespace with --parent",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Namespace name"},
			&cli.StringFlag{Name: "parent", Usage: "Parent namespace, e.g. cat"},
			&cli.Uint64Flag{Name: "duration", Usage: "Rental duration in blocks (root namespaces)", Value: defaultNamespaceDuration},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			name, err := stringOrAsk(c, s.prompter, "name", "Enter a namespace name: ", "namespace name")
			if err != nil {
				return err
			}

			params := txbuilder.RegisterNamespace{
				Name:     name,
				Parent:   c.String("parent"),
				Duration: c.Uint64("duration"),
			}
			return s.announceAs(ctx, c, defaultSigner, params)
		},
	}
}

// accountLinkCommand links a remote key to the account of --private-key.
// The remote key is read from --delegated-key, asked for, or generated.
//
// Usage example:
//
//	catapultcli account-link -p <private key> --action link
func accountLinkCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "account-link",
		Usage: "Link or unlink a remote account for delegated harvesting",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "private-key", Aliases: []string{"p"}, Usage: "Private key of your account"},
			&cli.StringFlag{Name: "action", Usage: "link or unlink"},
			&cli.StringFlag{Name: "delegated-key", Usage: "Private key of the remote account"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			p, err := s.pipeline(ctx, c)
			if err != nil {
				return err
			}

			action, err := linkActionOrAsk(c, s.prompter)
			if err != nil {
				return err
			}

			privateKey, err := stringOrAsk(c, s.prompter, "private-key", "Enter your account private key: ", "private key")
			if err != nil {
				return err
			}
			signer, err := account.FromPrivateKey("account-link", privateKey, p.svc.Env.Network)
			if err != nil {
				return fmt.Errorf("%w: %w", invalid("private key"), err)
			}

			remote, generated, err := remoteKeyPair(c, s.prompter)
			if err != nil {
				return err
			}

			fmt.Fprintf(s.out, "%s account %s and remote public key %s\n", action, signer.Address, remote.PublicKey())
			if generated {
				fmt.Fprintf(s.out, "Delegated private key: %s\n", remote.PrivateKey())
			}

			params := txbuilder.AccountLink{RemotePublicKey: remote.PublicKey(), Action: action}
			return p.run(ctx, signer, params)
		},
	}
}

func linkActionOrAsk(c *cli.Command, prompter *Prompter) (catapult.LinkAction, error) {
	value := c.String("action")
	if !c.IsSet("action") {
		answer, err := prompter.Ask("Enter 0 for UNLINK or 1 for LINK: ")
		if err != nil {
			return 0, err
		}
		value = answer
	}

	switch value {
	case "1", "link":
		return catapult.Link, nil
	case "0", "unlink":
		return catapult.Unlink, nil
	default:
		return 0, invalid("link action (link or unlink)")
	}
}

// remoteKeyPair reads the delegated key or generates one. generated tells
// whether the key is new and must be shown to the user.
func remoteKeyPair(c *cli.Command, prompter *Prompter) (kp catapult.KeyPair, generated bool, err error) {
	key := c.String("delegated-key")
	if !c.IsSet("delegated-key") {
		enter, err := prompter.Confirm("Do you want to enter a delegated account private key? ")
		if err != nil {
			return catapult.KeyPair{}, false, err
		}

		if !enter {
			kp, err := catapult.GenerateKeyPair()
			return kp, true, err
		}

		if key, err = prompter.Ask("Enter your delegated account private key: "); err != nil {
			return catapult.KeyPair{}, false, err
		}
	}

	kp, err = catapult.NewKeyPair(key)
	if err != nil {
		return catapult.KeyPair{}, false, fmt.Errorf("%w: %w", invalid("delegated private key"), err)
	}
	return kp, false, nil
}

// addressAliasCommand links or unlinks a namespace and the signer's address
// (or --address).
//
// Usage example:
//
//	catapultcli unlink-address-alias -n "[33347626, 3779697293]"
func addressAliasCommand(s *session, action catapult.AliasAction) *cli.Command {
	return &cli.Command{
		Name:  action.String() + "-address-alias",
		Usage: fmt.Sprintf("%s a namespace and an address", action),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "namespace-id", Aliases: []string{"n"}, Usage: `Namespace id, hex or JSON array ("[33347626, 3779697293]")`},
			&cli.StringFlag{Name: "address", Aliases: []string{"a"}, Usage: "Aliased address or account name (defaults to the signer)"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			const what = `namespaceId (Array JSON ex: "[33347626, 3779697293]")`

			raw, err := stringOrAsk(c, s.prompter, "namespace-id", "Enter a namespaceId: ", what)
			if err != nil {
				return err
			}
			id, err := catapult.ParseUInt64(raw)
			if err != nil {
				return fmt.Errorf("%w: %w", invalid(what), err)
			}

			p, err := s.pipeline(ctx, c)
			if err != nil {
				return err
			}
			signer, err := p.signer(ctx, defaultSigner)
			if err != nil {
				return err
			}

			address := signer.Address
			if c.IsSet("address") {
				if address, err = resolveAddress(ctx, p.svc, c.String("address")); err != nil {
					return err
				}
			}

			params := txbuilder.AddressAlias{NamespaceID: catapult.NamespaceID(id), Address: address, Action: action}
			return p.run(ctx, signer, params)
		},
	}
}

// mosaicDefinitionCommand defines a mosaic owned by the signer. The
// divisibility is clamped into [0, 6].
//
// Usage example:
//
//	catapultcli mosaic-definition -d 3 --supply-mutable --transferable
func mosaicDefinitionCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "mosaic-definition",
		Usage: "Define a new mosaic",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "divisibility", Aliases: []string{"d"}, Usage: "Divisibility [0, 6]"},
			&cli.BoolFlag{Name: "supply-mutable", Usage: "Supply can be changed later"},
			&cli.BoolFlag{Name: "transferable", Usage: "Mosaic can be transferred between third parties"},
			&cli.BoolFlag{Name: "restrictable", Usage: "Mosaic supports restrictions"},
			&cli.Uint64Flag{Name: "duration", Usage: "Duration in blocks, 0 for eternal", Value: defaultMosaicDuration},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			raw, err := stringOrAsk(c, s.prompter, "divisibility", "Enter a mosaic divisibility: ", "divisibility")
			if err != nil {
				return err
			}
			divisibility, err := strconv.Atoi(raw)
			if err != nil {
				return invalid("divisibility")
			}

			supplyMutable, err := boolOrConfirm(c, s.prompter, "supply-mutable", "Should the mosaic supply be mutable? ")
			if err != nil {
				return err
			}
			transferable, err := boolOrConfirm(c, s.prompter, "transferable", "Should the mosaic be transferable? ")
			if err != nil {
				return err
			}
			restrictable, err := boolOrConfirm(c, s.prompter, "restrictable", "Should the mosaic be restrictable? ")
			if err != nil {
				return err
			}

			p, err := s.pipeline(ctx, c)
			if err != nil {
				return err
			}
			signer, err := p.signer(ctx, defaultSigner)
			if err != nil {
				return err
			}

			params := txbuilder.MosaicDefinition{
				Owner:         signer.Address,
				Divisibility:  divisibility,
				SupplyMutable: supplyMutable,
				Transferable:  transferable,
				Restrictable:  restrictable,
				Duration:      c.Uint64("duration"),
			}
			return p.run(ctx, signer, params)
		},
	}
}

// mosaicAliasCommand links or unlinks a namespace and a mosaic.
//
// Usage example:
//
//	catapultcli mosaic-alias -n cat.currency -m 85BBEA6CC462B244
func mosaicAliasCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "mosaic-alias",
		Usage: "Link or unlink a namespace and a mosaic",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "namespace", Aliases: []string{"n"}, Usage: "Namespace name, e.g. cat.currency"},
			&cli.StringFlag{Name: "mosaic-id", Aliases: []string{"m"}, Usage: "Mosaic id, hex or JSON array"},
			&cli.StringFlag{Name: "action", Usage: "link or unlink", Value: "link"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			const nameWhat = `namespaceName (Ex: "cat.currency")`

			name, err := stringOrAsk(c, s.prompter, "namespace", "Enter a namespaceName: ", nameWhat)
			if err != nil {
				return err
			}
			if _, err := catapult.NamespacePath(name); err != nil {
				return fmt.Errorf("%w: %w", invalid(nameWhat), err)
			}

			mosaicID, err := mosaicIDOrAsk(c, s.prompter, "mosaic-id", "Enter a mosaicId (array notation or hexadecimal): ")
			if err != nil {
				return err
			}

			action, err := aliasAction(c.String("action"))
			if err != nil {
				return err
			}

			p, err := s.pipeline(ctx, c)
			if err != nil {
				return err
			}
			signer, err := p.signer(ctx, defaultSigner)
			if err != nil {
				return err
			}

			params := txbuilder.MosaicAlias{Namespace: name, MosaicID: mosaicID, Action: action}
			return p.run(ctx, signer, params)
		},
	}
}

func aliasAction(value string) (catapult.AliasAction, error) {
	switch value {
	case "link":
		return catapult.AliasLink, nil
	case "unlink":
		return catapult.AliasUnlink, nil
	default:
		return 0, invalid("alias action (link or unlink)")
	}
}

func mosaicIDOrAsk(c *cli.Command, prompter *Prompter, flag, question string) (catapult.MosaicID, error) {
	const what = `mosaicId (Array JSON ex: "[664046103, 198505464]")`

	raw, err := stringOrAsk(c, prompter, flag, question, what)
	if err != nil {
		return 0, err
	}

	id, err := catapult.ParseUInt64(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", invalid(what), err)
	}
	return catapult.MosaicID(id), nil
}

// mosaicSupplyCommand changes the supply of a mosaic.
//
// Usage example:
//
//	catapultcli mosaic-supply -i "[664046103, 198505464]" --delta 1000
func mosaicSupplyCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "mosaic-supply",
		Usage: "Increase or decrease the supply of a mosaic",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "mosaic-id", Aliases: []string{"i"}, Usage: "Mosaic id, hex or JSON array"},
			&cli.Uint64Flag{Name: "delta", Usage: "Supply change in atomic units", Value: defaultSupplyDelta},
			&cli.StringFlag{Name: "action", Usage: "increase or decrease", Value: "increase"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			mosaicID, err := mosaicIDOrAsk(c, s.prompter, "mosaic-id", "Enter a mosaicId: ")
			if err != nil {
				return err
			}

			var action catapult.MosaicSupplyChangeAction
			switch c.String("action") {
			case "increase":
				action = catapult.SupplyIncrease
			case "decrease":
				action = catapult.SupplyDecrease
			default:
				return invalid("supply action (increase or decrease)")
			}

			p, err := s.pipeline(ctx, c)
			if err != nil {
				return err
			}
			signer, err := p.signer(ctx, defaultSigner)
			if err != nil {
				return err
			}

			params := txbuilder.MosaicSupplyChange{MosaicID: mosaicID, Action: action, Delta: c.Uint64("delta")}
			return p.run(ctx, signer, params)
		},
	}
}

// transferCommand sends currency, or --mosaic, with a plain message.
//
// Usage example:
//
//	catapultcli transfer -a tester2 --amount 10
func transferCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "transfer",
		Usage: "Send a transfer transaction",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "address", Aliases: []string{"a"}, Usage: "Recipient address or account name", Value: defaultRecipient},
			&cli.Uint64Flag{Name: "amount", Usage: "Amount in atomic units", Value: defaultTransferAmount},
			&cli.StringFlag{Name: "message", Usage: "Plain message", Value: defaultTransferMessage},
			&cli.StringFlag{Name: "mosaic", Usage: "Mosaic id (defaults to the network currency)"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			p, err := s.pipeline(ctx, c)
			if err != nil {
				return err
			}
			signer, err := p.signer(ctx, defaultSigner)
			if err != nil {
				return err
			}

			recipient, err := resolveAddress(ctx, p.svc, c.String("address"))
			if err != nil {
				return err
			}

			var mosaicID catapult.MosaicID
			if c.IsSet("mosaic") {
				if mosaicID, err = mosaicIDOrAsk(c, s.prompter, "mosaic", ""); err != nil {
					return err
				}
			} else if mosaicID, err = currencyMosaic(ctx, p.svc); err != nil {
				return err
			}

			params := txbuilder.Transfer{
				Recipient: recipient,
				Mosaics:   []catapult.Mosaic{{ID: mosaicID, Amount: c.Uint64("amount")}},
				Message:   c.String("message"),
			}
			return p.run(ctx, signer, params)
		},
	}
}

// accountRestrictionCommand allows outgoing transaction types for the
// signer. The first restriction of an account must allow
// ACCOUNT_OPERATION_RESTRICTION itself.
//
// Usage example:
//
//	catapultcli account-restriction-allow-operation -t TRANSFER
func accountRestrictionCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "account-restriction-allow-operation",
		Usage: "Allow outgoing transaction types for the signer",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "Transaction type name or number, repeatable",
				Value:   []string{catapult.TypeAccountOperationRestriction.String()},
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			var types []catapult.TransactionType
			for _, raw := range c.StringSlice("type") {
				t, err := catapult.ParseTransactionType(raw)
				if err != nil {
					return fmt.Errorf("%w: %w", invalid("transaction type"), err)
				}
				types = append(types, t)
			}

			p, err := s.pipeline(ctx, c)
			if err != nil {
				return err
			}
			signer, err := p.signer(ctx, defaultRestrictionSigner)
			if err != nil {
				return err
			}

			params := txbuilder.AccountOperationRestriction{
				Flags:     catapult.AllowOutgoingTransactionType,
				Additions: types,
			}
			return p.run(ctx, signer, params)
		},
	}
}

// announceAs runs params through the pipeline signed by the --signer account
// or fallback.
func (s *session) announceAs(ctx context.Context, c *cli.Command, fallback string, params txbuilder.Params) error {
	p, err := s.pipeline(ctx, c)
	if err != nil {
		return err
	}

	signer, err := p.signer(ctx, fallback)
	if err != nil {
		return err
	}
	return p.run(ctx, signer, params)
}

// run watches the signer, announces params and settles.
func (p *pipeline) run(ctx context.Context, signer account.Account, params txbuilder.Params) error {
	if err := p.watch(ctx, signer.Address); err != nil {
		return err
	}

	result, err := p.announce(ctx, signer, params)
	if err != nil {
		return err
	}
	return p.settle(ctx, result)
}
