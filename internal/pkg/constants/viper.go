package constants

const (
	ViperLogLevel = "log.level"

	ViperDataDir         = "data.dir"
	ViperDataFilePattern = "data.file_pattern"
	ViperDataEncodings   = "data.encodings"

	ViperYearsFirst = "years.first"
	ViperYearsLast  = "years.last"

	ViperOutputDir = "output.dir"

	ViperProfilesMinYearsPresent = "profiles.min_years_present"
	ViperIndustryMinEmployees    = "industry.min_employees"
	ViperPipelineWorkers         = "pipeline.workers"

	ViperHTTPAddr         = "http.addr"
	ViperHTTPAllowOrigins = "http.allow_origins"

	ViperFetchPageURL = "fetch.page_url"
	ViperFetchRetries = "fetch.retries"

	EnvPrefix = "INJURIES"
)
