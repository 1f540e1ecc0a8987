package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"stockcount/pkg/contact"
)

func newContactCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Manage the customer registry",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Register a customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formFromFlags(cmd, contact.Form{})
			c, err := a.contacts(cmd.Context()).Save(cmd.Context(), "", f)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.ID)
			return nil
		},
	}
	addFormFlags(addCmd)
	cmd.AddCommand(addCmd)

	editCmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a customer; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed := contact.NewEditor(a.contacts(cmd.Context()))
			current, ok := ed.Begin(args[0])
			if !ok {
				return fmt.Errorf("contact %s not found", args[0])
			}
			c, err := ed.Submit(cmd.Context(), formFromFlags(cmd, current))
			if err != nil {
				return err
			}
			printContacts(cmd.OutOrStdout(), []contact.Contact{c})
			return nil
		},
	}
	addFormFlags(editCmd)
	cmd.AddCommand(editCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "rm ID",
		Short: "Remove a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.contacts(cmd.Context()).Remove(cmd.Context(), args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "List customers ordered by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printContacts(cmd.OutOrStdout(), a.contacts(cmd.Context()).Contacts())
			return nil
		},
	})

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm(cmd, "Limpar todos os clientes?") {
				return nil
			}
			return a.contacts(cmd.Context()).Clear(cmd.Context())
		},
	}
	clearCmd.Flags().Bool("yes", false, "Do not ask for confirmation.")
	cmd.AddCommand(clearCmd)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the registry as Nome;Email;Telefone; CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.export(cmd, contact.FilePrefix, a.contacts(cmd.Context()).ExportRows())
		},
	}
	addExportFlags(exportCmd)
	cmd.AddCommand(exportCmd)
	return cmd
}

func addFormFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Customer name.")
	cmd.Flags().String("email", "", "Customer email.")
	cmd.Flags().String("phone", "", "Customer phone.")
}

// formFromFlags overlays the flags that were set onto base.
func formFromFlags(cmd *cobra.Command, base contact.Form) contact.Form {
	if cmd.Flags().Changed("name") {
		base.Name, _ = cmd.Flags().GetString("name")
	}
	if cmd.Flags().Changed("email") {
		base.Email, _ = cmd.Flags().GetString("email")
	}
	if cmd.Flags().Changed("phone") {
		base.Phone, _ = cmd.Flags().GetString("phone")
	}
	return base
}

func printContacts(w io.Writer, contacts []contact.Contact) {
	if len(contacts) == 0 {
		fmt.Fprintln(w, "Nenhum cliente cadastrado ainda.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOME\tEMAIL\tTELEFONE")
	for _, c := range contacts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Phone)
	}
	tw.Flush()
}
