// Package htaslog wires klog the way the teacher's scheduler binary wires
// it: flags registered on the root command's flag set, verbosity resolved
// once at startup, everything after that a plain klog call site.
package htaslog

import (
	"flag"

	"github.com/spf13/pflag"
	"k8s.io/klog/v2"
)

// AddFlags registers klog's standard flags (-v, -logtostderr, ...) onto fs,
// the same way the teacher's cmd/scheduler/main.go exposes klog flags on
// its cobra root command.
func AddFlags(fs *pflag.FlagSet) {
	klogFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(klogFlags)
	fs.AddGoFlagSet(klogFlags)
}

// Flush flushes buffered log entries; call it once before process exit.
func Flush() {
	klog.Flush()
}
