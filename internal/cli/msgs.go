package cli

// Short messages (one-liners)
const (
	MsgRootShort = "Manage directory-scoped Python chat bot instances"
	MsgRootLong  = `botctl manages self-contained bot instances: directories holding a bot's
entry point, its configuration file and its pinned requirements. botctl
provisions a private virtualenv per instance, runs the bot inside it, and
cleans it up again, without touching anything else in the directory.`

	MsgVirtualenvShort = "Create the instance's virtualenv and install its requirements"
	MsgRunShort        = "Run the bot inside its virtualenv"
	MsgCleanShort      = "Remove the instance's virtualenv"
	MsgStatusShort     = "Show the state of one instance"
	MsgListShort       = "List every instance the registry knows about"
	MsgInitShort       = "Scaffold a new instance directory"
	MsgGenConfigShort  = "Print botctl configuration as TOML"
	MsgExecShort       = "Run a shell script inside the instance's virtualenv"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagFormat  = "Output format: auto, term, text or json"
	MsgFlagForce   = "Rebuild the virtualenv even when it is up to date"

	// Status messages
	MsgProvisionSpinner = "Provisioning virtualenv for %s"
)

// Long messages
const (
	MsgVirtualenvLong = `Create a virtualenv for the instance and install the packages pinned in
its requirements file. The command is idempotent: when the virtualenv
already exists and the requirements file is unchanged since the last
install, nothing happens. A changed requirements file, or --force,
rebuilds the virtualenv from scratch so removed packages actually
disappear.`

	MsgRunLong = `Run the bot with the instance's virtualenv activated. Everything after
the instance directory is passed to the bot verbatim, and the instance's
bot configuration file is appended as the final argument. botctl waits
for the bot, forwards interrupt and terminate signals to it, and exits
with the bot's own exit code.`

	MsgCleanLong = `Delete the instance's virtualenv. The instance's own files (entry point,
configuration, requirements) are never touched, so a later virtualenv
command can rebuild the environment from scratch. A missing virtualenv
is not an error.`

	MsgStatusLong = `Report everything run and virtualenv would care about for one instance:
whether the virtualenv exists and which Python it carries, which
instance files are present, whether the requirements file changed since
the last install, and when the instance was last provisioned and run.`

	MsgListLong = `List the instances botctl has provisioned or run on this machine,
together with whether each registered virtualenv still exists on disk.`

	MsgInitLong = `Create an instance directory populated with a commented botctl.toml, a
requirements template and a bot configuration skeleton. Existing files
are left untouched, so init is safe to run in a directory that already
has content.`

	MsgGenConfigLong = `Without arguments, print the commented default configuration template
for pasting into a new botctl.toml. With an instance directory, print
the instance's effective configuration after applying the defaults, the
global file, the instance file and the environment.`

	MsgExecLong = `Run a shell script with the instance's virtualenv activated: the venv
bin directory leads PATH and VIRTUAL_ENV is set, so python and pip
resolve into the instance's environment. The script runs in an embedded
POSIX shell interpreter, not the system shell. Arguments after the
script are available as $1, $2 and so on.`

	MsgCompletionLong = `To load completions:

Bash:
  $ source <(botctl completion bash)
  # To load completions for each session, execute once:
  # Linux:
  $ botctl completion bash > /etc/bash_completion.d/botctl
  # macOS:
  $ botctl completion bash > /usr/local/etc/bash_completion.d/botctl

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it.  You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  # To load completions for each session, execute once:
  $ botctl completion zsh > "${fpath[1]}/_botctl"
  # You will need to start a new shell for this setup to take effect.

Fish:
  $ botctl completion fish | source
  # To load completions for each session, execute once:
  $ botctl completion fish > ~/.config/fish/completions/botctl.fish

PowerShell:
  PS> botctl completion powershell | Out-String | Invoke-Expression
  # To load completions for every new session, run:
  PS> botctl completion powershell > botctl.ps1
  # and source this file from your PowerShell profile.`
)

// Examples
const (
	MsgVirtualenvExample = `  # Provision the bot in ./zulip-bot
  botctl virtualenv zulip-bot

  # Rebuild even though nothing changed
  botctl virtualenv zulip-bot --force`

	MsgRunExample = `  # Run the bot in ./zulip-bot
  botctl run zulip-bot

  # Everything after the directory goes to the bot itself
  botctl run zulip-bot --debug --loglevel info`

	MsgCleanExample = `  # Drop the virtualenv, keep the instance files
  botctl clean zulip-bot`

	MsgStatusExample = `  # Human-readable report
  botctl status zulip-bot

  # Machine-readable report
  botctl status zulip-bot --format json`

	MsgListExample = `  # All registered instances
  botctl list

  # As JSON, for scripting
  botctl list --format json`

	MsgInitExample = `  # Scaffold a fresh instance directory
  botctl init my-new-bot`

	MsgGenConfigExample = `  # Start a new config file from the commented template
  botctl genconfig > botctl.toml

  # Inspect what an instance actually resolves to
  botctl genconfig zulip-bot`

	MsgExecExample = `  # Poke around the instance's environment
  botctl exec zulip-bot 'pip list'

  # Script arguments land in $1, $2, ...
  botctl exec zulip-bot 'pip install "$1"' requests`
)
