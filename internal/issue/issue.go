// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

type Id int

const (
	CatalogNotFoundId Id = iota + 1
	CatalogParseErrorId
	UnsupportedFormatId
	GroupNotFoundId
	NoGroupsDefinedId
	DependencyCycleId
	MissingDependencyId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also:\n"
		for _, link := range i.docLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	catalogNotFoundIssue = &Issue{
		id: CatalogNotFoundId,
		mdMsg: `
# No pack catalog found!

instgroup needs a catalog file describing the installable packs.

## Search order:
1. The --catalog flag
2. The 'catalog' key of your config file
3. install.cue in the current directory

## Things you can try:
- Point to an existing catalog:
~~~
$ instgroup --catalog ./install.cue groups list
~~~

- Create a minimal catalog:
~~~cue
packs: [
  {name: "core", size: 1048576, required: true},
  {name: "docs", size: 2048, groups: ["full"], depends: ["core"]},
]
~~~`,
	}

	catalogParseErrorIssue = &Issue{
		id: CatalogParseErrorId,
		mdMsg: `
# Failed to parse the pack catalog!

The catalog contains syntax errors or does not match the catalog schema.

## Common issues:
- Invalid CUE, TOML or YAML syntax
- Unknown field names (only name, size, description, groups, depends,
  preselected, required and os are accepted)
- A negative size
- Two packs with the same name

## Things you can try:
- Check the error message above for the offending field
- Lint the catalog:
~~~
$ instgroup check
~~~`,
	}

	unsupportedFormatIssue = &Issue{
		id: UnsupportedFormatId,
		mdMsg: `
# Unsupported catalog format!

The catalog format is chosen by file extension.

## Supported extensions:
- .cue
- .toml
- .yaml, .yml`,
	}

	groupNotFoundIssue = &Issue{
		id: GroupNotFoundId,
		mdMsg: `
# Install group not found!

No pack in the catalog names the group you asked for.

## Things you can try:
- List the groups the catalog defines:
~~~
$ instgroup groups list
~~~

- Check for typos; group names are case sensitive`,
	}

	noGroupsDefinedIssue = &Issue{
		id: NoGroupsDefinedId,
		mdMsg: `
# The catalog defines no install groups!

Every pack belongs to every group, so there is nothing to choose from.

## Things you can try:
- Add a groups list to the packs that should only be installed on demand:
~~~cue
{name: "docs", groups: ["full"]}
~~~`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Dependency cycle detected!

Some packs depend on each other in a loop. Group resolution still
terminates, but the install order falls back to catalog order.

## Things you can try:
- Review the 'depends' lists of the packs named above
- Remove the dependency that closes the loop`,
	}

	missingDependencyIssue = &Issue{
		id: MissingDependencyId,
		mdMsg: `
# Missing dependency!

A pack depends on a name that is not in the catalog. The dependency is
skipped when groups are resolved.

## Things you can try:
- Fix the spelling of the dependency
- Add the missing pack to the catalog`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or contains errors.

## Things you can try:
- Show where the config file is expected:
~~~
$ instgroup config path
~~~

- Print the configuration that was loaded:
~~~
$ instgroup config show
~~~

- Remove the file to fall back to defaults`,
	}

	issues = map[Id]*Issue{
		catalogNotFoundIssue.Id():   catalogNotFoundIssue,
		catalogParseErrorIssue.Id(): catalogParseErrorIssue,
		unsupportedFormatIssue.Id(): unsupportedFormatIssue,
		groupNotFoundIssue.Id():     groupNotFoundIssue,
		noGroupsDefinedIssue.Id():   noGroupsDefinedIssue,
		dependencyCycleIssue.Id():   dependencyCycleIssue,
		missingDependencyIssue.Id(): missingDependencyIssue,
		configLoadFailedIssue.Id():  configLoadFailedIssue,
	}
)

// Values returns every registered issue ordered by Id.
func Values() []*Issue {
	ids := slices.Sorted(maps.Keys(issues))
	out := make([]*Issue, len(ids))
	for i, id := range ids {
		out[i] = issues[id]
	}
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
