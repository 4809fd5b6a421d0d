package internal

// Version is the current counselkit version
var Version = "0.3.1"
