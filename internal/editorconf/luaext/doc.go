// Package luaext runs plugin contribution scripts.
//
// An editor feature plugin ships a contrib.lua that returns a table
// declaring the configuration it contributes:
//
//	return {
//	  plugins = { "wordcount" },
//	  menu = {
//	    { key = "tools", title = "Tools", items = "wordcount | charcount" },
//	  },
//	  toolbar = {
//	    { name = "Tools", items = { "wordcount" } },
//	  },
//	  settings = {
//	    wordcount = { countSpaces = false },
//	  },
//	}
//
// Scripts run in a sandboxed interpreter: only the pure standard
// libraries (base, table, string, math) are open, the load family of
// globals is removed, and execution is bounded by a context deadline.
// A script therefore cannot touch the file system, the network, or the
// host process; all it can do is compute and return its contribution.
package luaext
