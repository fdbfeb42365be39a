package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"versa/internal/app"
	"versa/internal/domain"
	"versa/internal/infra/validation"
)

func newCategoriesCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List tool categories with tool counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd.Context(), opts, func(runtime *app.Runtime) error {
				type categoryView struct {
					ID    domain.Category `json:"id"`
					Label string          `json:"label"`
					Tools int             `json:"tools"`
				}
				current := runtime.Catalog.Current()
				views := make([]categoryView, 0, len(current.ListCategories()))
				rows := make([][]string, 0, cap(views))
				for _, category := range current.ListCategories() {
					count := len(current.ByCategory(category))
					views = append(views, categoryView{ID: category, Label: category.Label(), Tools: count})
					rows = append(rows, []string{string(category), category.Label(), fmt.Sprint(count)})
				}
				if opts.jsonOutput {
					return writeJSON(cmd.OutOrStdout(), views)
				}
				return renderTable(cmd.OutOrStdout(), []string{"ID", "LABEL", "TOOLS"}, rows)
			})
		},
	}
}

func newToolsCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Inspect the tool catalog",
	}
	cmd.AddCommand(
		newToolsListCmd(opts),
		newToolsShowCmd(opts),
		newToolsSearchCmd(opts),
	)
	return cmd
}

func newToolsListCmd(opts *cliOptions) *cobra.Command {
	var category string
	var supportedOnly bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tools, optionally filtered by category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := domain.Category(strings.TrimSpace(category))
			if filter != "" && !filter.Valid() {
				return exitWith(2, fmt.Sprintf("unknown category %q", category))
			}
			return withRuntime(cmd.Context(), opts, func(runtime *app.Runtime) error {
				current := runtime.Catalog.Current()
				tools := current.List()
				if filter != "" {
					tools = current.ByCategory(filter)
				}
				if supportedOnly {
					tools = supportedTools(tools, runtime.Registry)
				}
				return printTools(cmd.OutOrStdout(), tools, opts.locale, opts.jsonOutput)
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category id filter")
	cmd.Flags().BoolVar(&supportedOnly, "supported", false, "only tools with a registered processor")
	return cmd
}

func newToolsShowCmd(opts *cliOptions) *cobra.Command {
	var yamlOutput bool
	var schemaOutput bool
	cmd := &cobra.Command{
		Use:   "show <tool-id>",
		Short: "Show one tool definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), opts, func(runtime *app.Runtime) error {
				tool, ok := runtime.Catalog.GetToolByID(args[0])
				if !ok {
					return exitWith(3, fmt.Sprintf("%s: %s", domain.MessageUnknownTool, args[0]))
				}
				out := cmd.OutOrStdout()
				switch {
				case schemaOutput:
					schema, err := validation.SettingsSchema(tool)
					if err != nil {
						return err
					}
					return writeJSON(out, schema)
				case yamlOutput:
					enc := yaml.NewEncoder(out)
					enc.SetIndent(2)
					if err := enc.Encode(tool); err != nil {
						return err
					}
					return enc.Close()
				case opts.jsonOutput:
					return writeJSON(out, tool)
				}
				return printToolDetail(cmd, tool, opts.locale, runtime.Registry.Supports(tool.ID))
			})
		},
	}
	cmd.Flags().BoolVar(&yamlOutput, "yaml", false, "output the definition as YAML")
	cmd.Flags().BoolVar(&schemaOutput, "schema", false, "output the settings JSON Schema")
	return cmd
}

func newToolsSearchCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search tools by id, name, description or tag",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), opts, func(runtime *app.Runtime) error {
				tools := runtime.Catalog.SearchByText(strings.Join(args, " "), opts.locale)
				return printTools(cmd.OutOrStdout(), tools, opts.locale, opts.jsonOutput)
			})
		},
	}
}

func printToolDetail(cmd *cobra.Command, tool domain.ToolDefinition, locale string, supported bool) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n", tool.Name(locale), tool.ID)
	fmt.Fprintf(out, "category:  %s\n", tool.Category.Label())
	fmt.Fprintf(out, "requires:  %s\n", requirementFlags(tool))
	fmt.Fprintf(out, "supported: %t\n", supported)
	if desc := tool.Description(locale); desc != "" {
		fmt.Fprintf(out, "\n%s\n", desc)
	}
	if len(tool.InputSchema) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(tool.InputSchema))
	for _, name := range sortedSettingNames(tool) {
		setting := tool.InputSchema[name]
		rows = append(rows, []string{name, string(setting.Type), fmt.Sprint(setting.Default), settingRange(setting)})
	}
	fmt.Fprintln(out)
	return renderTable(out, []string{"SETTING", "TYPE", "DEFAULT", "RANGE"}, rows)
}

func supportedTools(tools []domain.ToolDefinition, registry app.SupportedTools) []domain.ToolDefinition {
	out := make([]domain.ToolDefinition, 0, len(tools))
	for _, tool := range tools {
		if registry.Supports(tool.ID) {
			out = append(out, tool)
		}
	}
	return out
}
