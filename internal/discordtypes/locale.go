package discordtypes

// Locale is a Discord locale identifier (e.g. "en-US", "fr"), used as the
// key type for command/option name and description localization maps.
type Locale string
