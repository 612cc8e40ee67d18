package error

// Exit codes for the lab CLI.
//
// Keep the structure:
//
// comment that explains the error
// const NamedConstant = ERRORCODE

// Unclassified error
const Unknown = 1

// Invalid experiment, agent or environment configuration
const InvalidConfig = 10

// Agent or environment called out of sequence
const InvalidState = 11

// Action or observation outside its space
const OutOfRange = 12

// Error reading the configuration file
const ReadConfig = 13

// Error writing a statistics report
const WriteReport = 14
