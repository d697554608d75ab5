package parser

import (
	"github.com/matzehuels/panemux/pkg/errors"
	"github.com/matzehuels/panemux/pkg/kdl"
	"github.com/matzehuels/panemux/pkg/layout"
)

// runAttrs are the raw run-related fields read off one node before
// resolution.
type runAttrs struct {
	command        string
	hasCommand     bool
	edit           string
	hasEdit        bool
	cwd            string
	hasCwd         bool
	args           []string
	closeOnExit    *bool
	startSuspended *bool
}

func (p *Parser) readRunAttrs(n *kdl.Node) (runAttrs, error) {
	var a runAttrs
	var err error
	a.command, a.hasCommand, err = stringFieldStrict(n, "command")
	if err != nil {
		return a, err
	}
	a.edit, a.hasEdit, err = stringFieldStrict(n, "edit")
	if err != nil {
		return a, err
	}
	a.cwd, a.hasCwd, err = p.parseCwd(n)
	if err != nil {
		return a, err
	}
	a.args, err = p.parseArgs(n)
	if err != nil {
		return a, err
	}
	if v, ok, err := boolFieldStrict(n, "close_on_exit"); err != nil {
		return a, err
	} else if ok {
		a.closeOnExit = &v
	}
	if v, ok, err := boolFieldStrict(n, "start_suspended"); err != nil {
		return a, err
	} else if ok {
		a.startSuspended = &v
	}
	return a, nil
}

// parsePaneCommand resolves the command/edit/cwd attribute triple into a
// run action. isTemplate relaxes the bare-attribute checks, deferring
// them until after the template merge.
func (p *Parser) parsePaneCommand(n *kdl.Node, isTemplate bool) (layout.Run, error) {
	a, err := p.readRunAttrs(n)
	if err != nil {
		return nil, err
	}
	if !isTemplate {
		if err := p.assertNoBareRunAttrs(a, n); err != nil {
			return nil, err
		}
	}
	holdOnClose := true
	if a.closeOnExit != nil {
		holdOnClose = !*a.closeOnExit
	}
	holdOnStart := a.startSuspended != nil && *a.startSuspended
	switch {
	case a.hasCommand && a.hasEdit:
		return nil, nodeErr(errors.ErrCodeRunConflict, n,
			"cannot have both a command and an edit instruction for the same pane")
	case a.hasCommand:
		return layout.RunCommand{
			Command:     a.command,
			Args:        a.args,
			Cwd:         a.cwd,
			HoldOnClose: holdOnClose,
			HoldOnStart: holdOnStart,
		}, nil
	case a.hasEdit && a.hasCwd:
		return layout.RunEditFile{Path: layout.JoinPath(a.cwd, a.edit)}, nil
	case a.hasEdit:
		return layout.RunEditFile{Path: a.edit}, nil
	case a.hasCwd:
		return layout.RunCwd{Path: a.cwd}, nil
	}
	return nil, nil
}

// assertNoBareRunAttrs rejects args/close_on_exit/start_suspended on a
// standalone pane without a command.
func (p *Parser) assertNoBareRunAttrs(a runAttrs, n *kdl.Node) error {
	if a.hasCommand {
		return nil
	}
	if a.closeOnExit != nil {
		return nodeErr(errors.ErrCodeRunOrphan, n, "close_on_exit can only be set if a command was specified")
	}
	if a.startSuspended != nil {
		return nodeErr(errors.ErrCodeRunOrphan, n, "start_suspended can only be set if a command was specified")
	}
	if a.args != nil {
		return nodeErr(errors.ErrCodeRunOrphan, n, "args can only be set if a command was specified")
	}
	return nil
}

// assertNoBareRunAttrsWithTemplate is the template-consumer variant: the
// bare attributes are legal as long as either side resolves a run
// action.
func (p *Parser) assertNoBareRunAttrsWithTemplate(paneRun, templateRun layout.Run, args []string, closeOnExit, startSuspended *bool, n *kdl.Node) error {
	if paneRun != nil || templateRun != nil {
		return nil
	}
	if args != nil {
		return nodeErr(errors.ErrCodeRunOrphan, n,
			"args can only be specified if a command was specified either in the pane_template or in the pane")
	}
	if closeOnExit != nil {
		return nodeErr(errors.ErrCodeRunOrphan, n,
			"close_on_exit can only be specified if a command was specified either in the pane_template or in the pane")
	}
	if startSuspended != nil {
		return nodeErr(errors.ErrCodeRunOrphan, n,
			"start_suspended can only be specified if a command was specified either in the pane_template or in the pane")
	}
	return nil
}

// parsePluginBlock resolves a nested plugin node into a run action.
func (p *Parser) parsePluginBlock(plugin *kdl.Node) (layout.Run, error) {
	allowExec, _, err := boolFieldStrict(plugin, "_allow_exec_host_cmd")
	if err != nil {
		return nil, err
	}
	rawURL, ok, err := stringFieldStrict(plugin, "location")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nodeErr(errors.ErrCodeInvalidLocation, plugin, "Plugins must have a location")
	}
	location, err := layout.ParsePluginLocation(rawURL)
	if err != nil {
		span, _ := plugin.FieldSpan("location")
		return nil, errors.New(errors.ErrCodeInvalidLocation, "Failed to parse url: %v", err).
			At(span.Offset, span.Len)
	}
	return layout.RunPlugin{Location: location, AllowExecHostCmd: allowExec}, nil
}

// parseRunBlock resolves the full run surface of a pane node: the
// command/edit/cwd triple plus an optional plugin child. A plugin block
// replaces a bare Cwd action but conflicts with anything stronger.
func (p *Parser) parseRunBlock(n *kdl.Node, isTemplate bool) (layout.Run, error) {
	run, err := p.parsePaneCommand(n, isTemplate)
	if err != nil {
		return nil, err
	}
	if plugin := n.Child("plugin"); plugin != nil {
		if run != nil {
			if _, isCwd := run.(layout.RunCwd); !isCwd {
				return nil, nodeErr(errors.ErrCodeRunConflict, plugin,
					"Cannot have both a command/edit and a plugin block for a single pane")
			}
		}
		return p.parsePluginBlock(plugin)
	}
	return run, nil
}

// graftRunAttrs attaches consumer-supplied args and hold flags onto a
// merged run action. Only commands can carry them.
func graftRunAttrs(run layout.Run, args []string, closeOnExit, startSuspended *bool) layout.Run {
	cmd, ok := run.(layout.RunCommand)
	if !ok {
		return run
	}
	if args != nil {
		cmd.Args = args
	}
	if closeOnExit != nil {
		cmd.HoldOnClose = !*closeOnExit
	}
	if startSuspended != nil {
		cmd.HoldOnStart = *startSuspended
	}
	return cmd
}
