package pagination

import twmerge "github.com/Oudwins/tailwind-merge-go"

const (
	itemClass     = "inline-flex min-w-10 items-center justify-center rounded-md px-3 py-2 text-sm font-medium"
	linkClass     = "text-zinc-700 hover:bg-zinc-100"
	currentClass  = "bg-zinc-900 text-white"
	ellipsisClass = "text-zinc-400"
	inertClass    = "text-zinc-300 cursor-default"
)

func linkClasses() string     { return twmerge.Merge(itemClass, linkClass) }
func currentClasses() string  { return twmerge.Merge(itemClass, currentClass) }
func ellipsisClasses() string { return twmerge.Merge(itemClass, ellipsisClass) }
func inertClasses() string    { return twmerge.Merge(itemClass, inertClass) }
