package pkg

// ModuleName tags log lines written by the crew module.
const ModuleName = "crew"
