// Command bookcode parses, validates, and converts ISBN-family identifier
// codes from the command line, using the bundled range allocation by
// default and a remote one when configured (see the BOOKCODE_* environment
// variables or --ranges-url).
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/book-industry-toolkit/bookcode/isbn"
	"github.com/book-industry-toolkit/bookcode/ranges"
)

var typeNames = map[string]isbn.Type{
	"isbn13":   isbn.ISBN13,
	"isbn10":   isbn.ISBN10,
	"ean13":    isbn.EAN13,
	"ean10":    isbn.EAN10,
	"isbna":    isbn.ISBNA,
	"gtin14":   isbn.GTIN14,
	"ismn":     isbn.ISMN,
	"musicean": isbn.MusicEAN,
}

func knownTypes() string {
	names := make([]string, 0, len(typeNames))
	for name := range typeNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func lookupType(name string) (isbn.Type, error) {
	t, ok := typeNames[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown type %q (known: %s)", name, knownTypes())
	}
	return t, nil
}

type app struct {
	log zerolog.Logger

	rangesURL string
	refresh   bool
	noVerify  bool
	verbose   bool
}

func main() {
	a := &app{}
	if err := a.rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bookcode",
		Short:         "parse, validate, and convert ISBN-family identifier codes",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&a.rangesURL, "ranges-url", "",
		"URL of remote range allocation data (overrides BOOKCODE_RANGES_URL)")
	root.PersistentFlags().BoolVar(&a.refresh, "refresh", false,
		"fetch the range allocation before running (needs a URL)")
	root.PersistentFlags().BoolVar(&a.noVerify, "no-verify", false,
		"skip check digit verification while parsing")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false,
		"log provider activity")

	root.AddCommand(a.parseCmd(), a.convertCmd(), a.validateCmd())
	return root
}

func (a *app) decoder(ctx context.Context) (isbn.Decoder, func(), error) {
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().Level(zerolog.WarnLevel)
	if a.verbose {
		a.log = a.log.Level(zerolog.DebugLevel)
	}

	cfg, err := ranges.ConfigFromEnv()
	if err != nil {
		return isbn.Decoder{}, nil, err
	}
	if a.rangesURL != "" {
		cfg.URL = a.rangesURL
	}

	provider, err := ranges.New(cfg, ranges.WithLogger(a.log))
	if err != nil {
		return isbn.Decoder{}, nil, err
	}
	if a.refresh {
		if err := provider.Refresh(ctx); err != nil {
			provider.Close()
			return isbn.Decoder{}, nil, err
		}
	}
	return isbn.NewDecoder(provider), provider.Close, nil
}

func (a *app) parse(d isbn.Decoder, code string) (*isbn.BookCode, error) {
	if a.noVerify {
		return d.ParseUnchecked(code)
	}
	return d.Parse(code)
}

func (a *app) parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <code>",
		Short: "decompose a code and print its elements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, closeProvider, err := a.decoder(cmd.Context())
			if err != nil {
				return err
			}
			defer closeProvider()

			c, err := a.parse(d, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "type:        %s\n", c.Type())
			fmt.Fprintf(out, "prefix:      %s\n", c.PrefixElement())
			fmt.Fprintf(out, "group:       %s\n", c.GroupElement())
			fmt.Fprintf(out, "registrant:  %s\n", c.RegistrantElement())
			fmt.Fprintf(out, "publication: %s\n", c.PublicationElement())
			fmt.Fprintf(out, "agency:      %s\n", c.Agency())
			if c.HasCheckDigit() {
				fmt.Fprintf(out, "check digit: %c (valid: %t)\n", c.CheckDigit(), c.IsCheckDigitValid())
			} else {
				fmt.Fprintln(out, "check digit: none")
			}
			if c.Type() == isbn.GTIN14 {
				fmt.Fprintf(out, "indicator:   %d\n", c.PackagingIndicator())
			}
			return nil
		},
	}
}

func (a *app) convertCmd() *cobra.Command {
	var (
		target    string
		sep       string
		indicator int
		plain     bool
	)
	cmd := &cobra.Command{
		Use:   "convert <code>",
		Short: "render a code in another representation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := lookupType(target)
			if err != nil {
				return err
			}
			d, closeProvider, err := a.decoder(cmd.Context())
			if err != nil {
				return err
			}
			defer closeProvider()

			c, err := a.parse(d, args[0])
			if err != nil {
				return err
			}

			if plain {
				sep = ""
			}
			var result string
			switch {
			case t == isbn.GTIN14:
				result, err = c.ToGTIN14(indicator)
			case (plain || sep != "") && t == isbn.ISBN13:
				result, err = c.ToISBN13(sep)
			case (plain || sep != "") && t == isbn.ISBN10:
				result, err = c.ToISBN10(sep)
			default:
				result, err = c.ToFormat(t, true)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "to", "isbn13",
		"target representation: "+knownTypes())
	cmd.Flags().StringVar(&sep, "sep", "",
		"separator for isbn13/isbn10 output (defaults to the source's)")
	cmd.Flags().IntVar(&indicator, "indicator", -1,
		"GTIN-14 packaging indicator, 0-8")
	cmd.Flags().BoolVar(&plain, "plain", false,
		"render isbn13/isbn10 output without separators")
	return cmd
}

func (a *app) validateCmd() *cobra.Command {
	var expected string
	cmd := &cobra.Command{
		Use:   "validate <code>",
		Short: "check that a code is canonically formatted and internally consistent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, closeProvider, err := a.decoder(cmd.Context())
			if err != nil {
				return err
			}
			defer closeProvider()

			var c *isbn.BookCode
			if expected == "" {
				c, err = d.ValidateAsAny(args[0])
			} else {
				var t isbn.Type
				if t, err = lookupType(expected); err != nil {
					return err
				}
				c, err = d.ValidateAs(args[0], t)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "valid %s (%s)\n", c.Type(), c.Agency())
			return nil
		},
	}
	cmd.Flags().StringVar(&expected, "as", "",
		"require this representation instead of detecting it")
	return cmd
}
