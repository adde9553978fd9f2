// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"maps"
	"slices"

	"github.com/charmbracelet/glamour"
)

const (
	InvalidSpecificationId Id = iota + 1
	UnsupportedEnvironmentId
	ConfigLoadFailedId
	ContainerEngineNotFoundId
)

type (
	// Id identifies a catalog entry.
	Id int

	// MarkdownMsg is markdown shown to the user for an issue.
	MarkdownMsg string

	// Issue is a catalog entry explaining a class of failure.
	Issue struct {
		id    Id
		mdMsg MarkdownMsg
	}
)

var (
	render = glamour.Render

	invalidSpecificationIssue = &Issue{
		id: InvalidSpecificationId,
		mdMsg: `
# Invalid environment specification

The environment could not be built from your configuration or flags.

## Things you can try:
- Use one of the supported kinds: ` + "`default`, `isolated`, `container`" + `
- For ` + "`isolated`" + `, set ` + "`environment.path`" + ` to the interpreter inside the environment:
~~~cue
environment: {
	kind: "isolated"
	path: "/opt/envs/myenv/bin/python"
}
~~~
- For ` + "`container`" + `, set ` + "`environment.image`" + ` to a valid image reference such as ` + "`python:3.12`" + `
- Only set the field that belongs to the selected kind`,
	}

	unsupportedEnvironmentIssue = &Issue{
		id: UnsupportedEnvironmentId,
		mdMsg: `
# Container environments are disabled

Your configuration asks for a container environment, but container resolution is turned off.

## Things you can try:
- Enable containers in your config file:
~~~cue
container: enabled: true
~~~
- Or pick a different environment kind:
~~~
$ envresolve resolve --kind default
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

## Things you can try:
- Check the CUE syntax of your config file
- Show where envresolve looks for configuration:
~~~
$ envresolve config path
~~~
- Recreate a default configuration:
~~~
$ envresolve config init
~~~`,
	}

	containerEngineNotFoundIssue = &Issue{
		id: ContainerEngineNotFoundId,
		mdMsg: `
# No container engine found

Planning a container launch needs Docker or Podman on your PATH.

## Things you can try:
- Install Docker or Podman
- Select the installed engine:
~~~
$ envresolve plan --engine podman -- python job.py
~~~`,
	}

	issues = map[Id]*Issue{
		invalidSpecificationIssue.Id():    invalidSpecificationIssue,
		unsupportedEnvironmentIssue.Id():  unsupportedEnvironmentIssue,
		configLoadFailedIssue.Id():        configLoadFailedIssue,
		containerEngineNotFoundIssue.Id(): containerEngineNotFoundIssue,
	}
)

// Id returns the catalog id.
func (i *Issue) Id() Id { return i.id }

// MarkdownMsg returns the raw markdown.
func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// Render renders the markdown for a terminal with the given glamour style
// ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

// Values returns all catalog entries ordered by id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return cmp.Compare(a.id, b.id)
	})
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
