package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var resources = map[string]bool{"movies": true, "actors": true, "genders": true, "castings": true}

func resourceArg(name string) error {
	if !resources[name] {
		return fmt.Errorf("recurso desconocido %q (movies|actors|genders|castings)", name)
	}
	return nil
}

func idArg(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id inválido: %q", s)
	}
	return id, nil
}

func newRootCmd(cl *client) *cobra.Command {
	root := &cobra.Command{
		Use:           "castingctl",
		Short:         "CLI para la API de casting (movies, actors, genders, castings)",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cl.BaseURL, "api-url", cl.BaseURL, "URL base de la API (env CASTING_API_URL)")
	root.PersistentFlags().StringVar(&cl.Token, "token", cl.Token, "Bearer token (env CASTING_TOKEN)")
	root.PersistentFlags().StringVar(&cl.OutFormat, "out", cl.OutFormat, "Formato de salida: json|text")

	pingCmd := &cobra.Command{
		Use:   "ping",
		Short: "GET /healthz",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := cl.call(cmd.Context(), http.MethodGet, "/healthz", nil)
			if err != nil {
				return err
			}
			cl.print(b)
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list <resource>",
		Short: "Lista un recurso",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resourceArg(args[0]); err != nil {
				return err
			}
			b, err := cl.call(cmd.Context(), http.MethodGet, "/"+args[0], nil)
			if err != nil {
				return err
			}
			cl.print(b)
			return nil
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <resource> <id>",
		Short: "Obtiene un registro",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resourceArg(args[0]); err != nil {
				return err
			}
			id, err := idArg(args[1])
			if err != nil {
				return err
			}
			b, err := cl.call(cmd.Context(), http.MethodGet, fmt.Sprintf("/%s/%d", args[0], id), nil)
			if err != nil {
				return err
			}
			cl.print(b)
			return nil
		},
	}

	var createData string
	createCmd := &cobra.Command{
		Use:   "create <resource> --data '<json>'",
		Short: "Crea un registro",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resourceArg(args[0]); err != nil {
				return err
			}
			if !json.Valid([]byte(createData)) {
				return fmt.Errorf("--data debe ser JSON válido")
			}
			b, err := cl.call(cmd.Context(), http.MethodPost, "/"+args[0], []byte(createData))
			if err != nil {
				return err
			}
			cl.print(b)
			return nil
		},
	}
	createCmd.Flags().StringVar(&createData, "data", "", "Body JSON")

	var updateData string
	updateCmd := &cobra.Command{
		Use:   "update <resource> <id> --data '<json>'",
		Short: "Modifica un registro (PATCH con todos los campos)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resourceArg(args[0]); err != nil {
				return err
			}
			id, err := idArg(args[1])
			if err != nil {
				return err
			}
			if !json.Valid([]byte(updateData)) {
				return fmt.Errorf("--data debe ser JSON válido")
			}
			b, err := cl.call(cmd.Context(), http.MethodPatch, fmt.Sprintf("/%s/%d", args[0], id), []byte(updateData))
			if err != nil {
				return err
			}
			cl.print(b)
			return nil
		},
	}
	updateCmd.Flags().StringVar(&updateData, "data", "", "Body JSON")

	deleteCmd := &cobra.Command{
		Use:   "delete <resource> <id>",
		Short: "Borra un registro",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resourceArg(args[0]); err != nil {
				return err
			}
			id, err := idArg(args[1])
			if err != nil {
				return err
			}
			b, err := cl.call(cmd.Context(), http.MethodDelete, fmt.Sprintf("/%s/%d", args[0], id), nil)
			if err != nil {
				return err
			}
			cl.print(b)
			return nil
		},
	}

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Crea un gender, una movie, un actor y un casting de ejemplo",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := seed(cmd.Context(), cl)
			if err != nil {
				return err
			}
			fmt.Fprintf(cl.Out, "seeded gender=%d movie=%d actor=%d casting=%d\n",
				ids.Gender, ids.Movie, ids.Actor, ids.Casting)
			return nil
		},
	}

	root.AddCommand(pingCmd, listCmd, getCmd, createCmd, updateCmd, deleteCmd, seedCmd)
	return root
}

func main() {
	_ = godotenv.Load()

	cl := &client{
		BaseURL:   envOr("CASTING_API_URL", "http://localhost:8080"),
		Token:     envOr("CASTING_TOKEN", ""),
		OutFormat: envOr("CASTING_OUT", "text"),
		HTTP:      &http.Client{Timeout: 30 * time.Second},
		Out:       os.Stdout,
	}

	if err := newRootCmd(cl).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
