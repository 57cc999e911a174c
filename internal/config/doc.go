// Package config loads cellbind.json.
//
// Every field is optional; missing values take the defaults from New.
//
//	{
//	  "playground": {"host": "0.0.0.0", "port": 8080},
//	  "log": {"level": "debug", "format": "json"},
//	  "metrics": {"enabled": true, "namespace": "cellbind"},
//	  "snapshot": {
//	    "dir": "snapshots",
//	    "s3": {"bucket": "ui-snapshots", "region": "eu-west-1", "prefix": "todo/"}
//	  }
//	}
//
// Command-line flags override the file.
package config
