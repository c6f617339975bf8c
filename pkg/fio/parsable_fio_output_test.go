package fio

// parsableFioOutput is a randread run whose job options lack numjobs, which
// fio then records in the global options.
const parsableFioOutput = `{
	"fio version" : "fio-3.20",
	"timestamp" : 1611952282,
	"timestamp_ms" : 1611952282240,
	"time" : "Fri Jan 29 20:31:22 2021",
	"global options" : {
	  "directory" : "/dataset",
	  "randrepeat" : "0",
	  "verify" : "0",
	  "ioengine" : "libaio",
	  "direct" : "1",
	  "numjobs" : "1",
	  "gtod_reduce" : "1"
	},
	"jobs" : [
	  {
		"jobname" : "read_iops",
		"groupid" : 0,
		"error" : 0,
		"eta" : 0,
		"elapsed" : 18,
		"job options" : {
		  "name" : "read_iops",
		  "bs" : "4K",
		  "iodepth" : "64",
		  "size" : "2G",
		  "rw" : "randread",
		  "ramp_time" : "2s",
		  "runtime" : "15s"
		},
		"read" : {
		  "io_bytes" : 61886464,
		  "io_kbytes" : 60436,
		  "bw_bytes" : 4039322,
		  "bw" : 3944,
		  "iops" : 982.050780,
		  "runtime" : 15321,
		  "total_ios" : 15046,
		  "lat_ns" : {
			"min" : 207846,
			"max" : 513874283,
			"mean" : 65069.5,
			"stddev" : 1203.25,
			"N" : 15046
		  },
		  "bw_mean" : 3995.000000,
		  "iops_mean" : 998.566667,
		  "iops_stddev" : 300.247677,
		  "iops_samples" : 30
		},
		"write" : {
		  "io_bytes" : 0,
		  "bw" : 0,
		  "iops" : 0.000000,
		  "lat_ns" : {
			"min" : 0,
			"max" : 0,
			"mean" : 0.000000,
			"stddev" : 0.000000,
			"N" : 0
		  },
		  "iops_stddev" : 0.000000
		},
		"job_runtime" : 15322,
		"usr_cpu" : 1.109516,
		"sys_cpu" : 3.648349,
		"ctx" : 17991,
		"latency_ns" : {
		  "2" : 0.000000,
		  "4" : 0.000000,
		  "1000" : 0.000000
		},
		"latency_us" : {
		  "250" : 0.010000,
		  "500" : 12.500000,
		  "1000" : 40.000000
		},
		"latency_ms" : {
		  "2" : 30.000000,
		  "4" : 10.000000,
		  "2000" : 0.000000,
		  ">=2000" : 0.010000
		},
		"latency_depth" : 64
	  }
	]
  }`

// steadyStateFioOutput is a sequential write run with steady state
// detection enabled.
const steadyStateFioOutput = `{
	"fio version" : "fio-3.28",
	"global options" : {
	  "ioengine" : "libaio",
	  "direct" : "1",
	  "steadystate" : "iops_slope:0.1%",
	  "ss_dur" : "30s"
	},
	"jobs" : [
	  {
		"jobname" : "seq_write",
		"job options" : {
		  "name" : "seq_write",
		  "bs" : "128k",
		  "iodepth" : "16",
		  "numjobs" : "4",
		  "rw" : "write"
		},
		"write" : {
		  "bw" : 512000,
		  "iops" : 4000.5,
		  "iops_stddev" : 12.5,
		  "lat_ns" : {
			"mean" : 3950000.25,
			"stddev" : 1500.75
		  }
		},
		"usr_cpu" : 2.5,
		"sys_cpu" : 7.25,
		"latency_ns" : { "1000" : 0.000000 },
		"latency_us" : { "1000" : 0.500000 },
		"latency_ms" : { "4" : 99.500000 },
		"steadystate" : {
		  "ss" : "iops_slope",
		  "duration" : 30,
		  "attained" : 1,
		  "criterion" : "0.08%",
		  "max_deviation" : 3.2,
		  "slope" : 1.5,
		  "data" : {
			"bw_mean" : 511998,
			"iops_mean" : 3999
		  }
		}
	  }
	]
  }`

// globalOptionsFioOutput records every option globally and its job options
// are empty, as written by job files with a [global] section only.
const globalOptionsFioOutput = `{
	"fio version" : "fio-3.16",
	"global options" : {
	  "bs" : "8k",
	  "iodepth" : "2",
	  "numjobs" : "8",
	  "rw" : "randwrite"
	},
	"jobs" : [
	  {
		"jobname" : "global",
		"job options" : {},
		"write" : {
		  "bw" : 1578,
		  "iops" : 390.525218,
		  "iops_stddev" : 119.151738,
		  "lat_ns" : {
			"mean" : 1700.5,
			"stddev" : 20.25
		  }
		},
		"usr_cpu" : 0.508309,
		"sys_cpu" : 2.280873,
		"latency_ns" : {},
		"latency_us" : {},
		"latency_ms" : {}
	  }
	]
  }`

// multiJobFioOutput holds two jobs, one per job file section.
const multiJobFioOutput = `{
	"fio version" : "fio-3.20",
	"global options" : {
	  "directory" : "/dataset",
	  "ioengine" : "libaio"
	},
	"jobs" : [
	  {
		"jobname" : "read_iops",
		"job options" : {
		  "name" : "read_iops",
		  "bs" : "4K",
		  "iodepth" : "64",
		  "rw" : "randread"
		}
	  },
	  {
		"jobname" : "write_iops",
		"job options" : {
		  "name" : "write_iops",
		  "bs" : "4K",
		  "iodepth" : "64",
		  "rw" : "randwrite"
		}
	  }
	]
  }`
