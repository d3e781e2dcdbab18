/**
 * @description
 * This file implements the command parser for the bot's prefix commands.
 * A chat message is a command when its first whitespace-separated token
 * starts with `!`; the token (lowercased, prefix stripped) is the command
 * name and the remaining tokens are positional arguments. Mentioned users
 * arrive out-of-band on the gateway event, not as parsed tokens.
 */

package bot

import "strings"

const commandPrefix = "!"

// Command is a transient parsed request, created per incoming message and
// discarded after dispatch.
type Command struct {
	Name string
	Args []string
}

// ParseCommand splits raw message text into a command name and arguments.
// The second return value is false when the message is not a command.
func ParseCommand(content string) (Command, bool) {
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return Command{}, false
	}
	if !strings.HasPrefix(fields[0], commandPrefix) {
		return Command{}, false
	}
	name := strings.ToLower(strings.TrimPrefix(fields[0], commandPrefix))
	if name == "" {
		return Command{}, false
	}
	return Command{Name: name, Args: fields[1:]}, true
}
