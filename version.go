package microscript

// Version is the interpreter release, shown by the CLI banner.
const Version = "0.3.1"
